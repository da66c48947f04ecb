package model

import (
	"errors"
	"fmt"
)

// Push precondition and session failures. Precondition errors are raised
// before any remote call is made; ErrSessionExpired is raised after the
// credential has already been cleared, so the caller only needs to redirect
// to sign-in.
var (
	ErrNotAuthenticated     = errors.New("not authenticated: sign in before pushing")
	ErrNoRepositorySelected = errors.New("no repository selected")
	ErrNoSubmission         = errors.New("no submission to push")
	ErrSessionExpired       = errors.New("session expired: sign in again")
)

// RemoteError carries a non-2xx, non-401 response from the remote host,
// including the remote-reported message when one was present.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote request failed with status %d: %s", e.StatusCode, e.Message)
}
