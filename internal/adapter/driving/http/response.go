package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/AranL152/GeetCode/internal/application"
	"github.com/AranL152/GeetCode/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// SessionResponse is the JSON representation of the session snapshot.
type SessionResponse struct {
	State            string           `json:"state"`
	Authenticated    bool             `json:"authenticated"`
	User             *UserResponse    `json:"user,omitempty"`
	AuthLoading      bool             `json:"auth_loading"`
	PushLoading      bool             `json:"push_loading"`
	AuthError        string           `json:"auth_error,omitempty"`
	PushError        string           `json:"push_error,omitempty"`
	LastPushWritten  *bool            `json:"last_push_written,omitempty"`
	SelectedRepo     *RepoResponse    `json:"selected_repo,omitempty"`
	LatestSubmission *SubmissionBrief `json:"latest_submission,omitempty"`
}

// UserResponse is the JSON representation of the cached identity.
type UserResponse struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	Name      string `json:"name,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// RepoResponse is the JSON representation of the selected repository.
type RepoResponse struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// SubmissionBrief describes the latest submission without echoing its code.
type SubmissionBrief struct {
	ProblemTitle string `json:"problem_title"`
	Language     string `json:"language"`
}

// SelectRepoRequest is the JSON body for the repository selection endpoint.
type SelectRepoRequest struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// SubmissionRequest is the JSON body for the submission intake endpoint.
type SubmissionRequest struct {
	ProblemTitle string `json:"problem_title"`
	Language     string `json:"language"`
	Code         string `json:"code"`
}

// PushRequest is the JSON body for the push endpoint. Message is optional.
type PushRequest struct {
	Message string `json:"message"`
}

// PushResponse is the JSON representation of a push outcome.
type PushResponse struct {
	Written       bool   `json:"written"`
	Path          string `json:"path"`
	CommitMessage string `json:"commit_message,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toSessionResponse converts a session snapshot to its JSON representation.
// The token itself is never echoed back to the UI.
func toSessionResponse(snap application.SessionSnapshot, state model.AuthState) SessionResponse {
	resp := SessionResponse{
		State:           string(state),
		Authenticated:   snap.Token != "",
		AuthLoading:     snap.AuthLoading,
		PushLoading:     snap.PushLoading,
		AuthError:       snap.AuthError,
		PushError:       snap.PushError,
		LastPushWritten: snap.LastPushWritten,
	}

	if snap.User != nil {
		resp.User = &UserResponse{
			Login:     snap.User.Login,
			ID:        snap.User.ID,
			AvatarURL: snap.User.AvatarURL,
			Name:      snap.User.Name,
			HTMLURL:   snap.User.HTMLURL,
		}
	}
	if !snap.SelectedRepo.IsZero() {
		resp.SelectedRepo = &RepoResponse{
			Owner: snap.SelectedRepo.Owner,
			Name:  snap.SelectedRepo.Name,
		}
	}
	if !snap.LatestSubmission.IsZero() {
		resp.LatestSubmission = &SubmissionBrief{
			ProblemTitle: snap.LatestSubmission.ProblemTitle,
			Language:     snap.LatestSubmission.Language,
		}
	}

	return resp
}
