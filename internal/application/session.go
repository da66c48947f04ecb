// Package application contains use-case orchestration services.
package application

import (
	"sync"

	"github.com/AranL152/GeetCode/internal/domain/model"
)

// SessionSnapshot is an immutable view of the session cells handed to
// subscribers and API consumers.
type SessionSnapshot struct {
	AuthState model.AuthState
	Token     string
	User      *model.UserProfile

	AuthLoading bool
	PushLoading bool
	AuthError   string
	PushError   string

	// LastPushWritten is nil until a push completes, then reports whether the
	// last successful push actually wrote (false means already up to date).
	LastPushWritten *bool

	LatestSubmission model.Submission
	SelectedRepo     model.RepoRef
}

// SessionState is the one process-wide observable state container. It is
// constructed at startup and passed by reference to every component that
// needs it; there are no hidden singletons. Subscribers are invoked
// synchronously after each mutation with a copy of the cells.
type SessionState struct {
	mu        sync.Mutex
	snap      SessionSnapshot
	listeners map[int]func(SessionSnapshot)
	nextID    int
}

// NewSessionState creates an empty session in the unauthenticated state.
func NewSessionState() *SessionState {
	return &SessionState{
		snap:      SessionSnapshot{AuthState: model.AuthStateUnauthenticated},
		listeners: make(map[int]func(SessionSnapshot)),
	}
}

// Snapshot returns a copy of the current cells.
func (s *SessionState) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to be called after every mutation. The returned
// function unregisters it.
func (s *SessionState) Subscribe(fn func(SessionSnapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Update applies mutate to the cells as one batch and notifies subscribers
// with the result. A profile is never visible for a cleared token: clearing
// the token inside a batch also clears the user cell.
func (s *SessionState) Update(mutate func(*SessionSnapshot)) {
	s.mu.Lock()
	mutate(&s.snap)
	if s.snap.Token == "" {
		s.snap.User = nil
	}
	snap := s.snap
	fns := make([]func(SessionSnapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Listeners run outside the lock so they may read the session themselves.
	for _, fn := range fns {
		fn(snap)
	}
}
