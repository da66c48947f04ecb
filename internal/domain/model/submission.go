package model

// Submission is one unit of work to publish: a solved problem's title, the
// language it was solved in, and the solution source. Immutable once created;
// consumed once per push attempt.
type Submission struct {
	ProblemTitle string `json:"problem_title"`
	Language     string `json:"language"`
	Code         string `json:"code"`
}

// IsZero reports whether the submission carries nothing to publish.
func (s Submission) IsZero() bool {
	return s.ProblemTitle == "" && s.Code == ""
}
