package model

// RepoRef identifies the target repository solutions are pushed to.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// IsZero reports whether no repository has been selected.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" || r.Name == ""
}

// FullName returns the "owner/name" form used in logs and API paths.
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}
