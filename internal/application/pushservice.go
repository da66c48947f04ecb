package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/AranL152/GeetCode/internal/domain/model"
	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// DefaultBranch is the only branch the engine reads from or writes to.
const DefaultBranch = "main"

// Invalidator is the capability handed to the push engine so it can force
// credential invalidation on an authorization rejection without a direct
// dependency on the auth service.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// PushResult reports the outcome of a push. Written is false when the remote
// file already held identical content and no write was issued.
type PushResult struct {
	Written       bool
	Path          string
	CommitMessage string
}

// PushService is the content upsert engine. Given a submission and the
// selected repository it derives the destination path, fetches the current
// remote state, decides create-vs-update-vs-skip, and performs the write.
// The read-before-write step exists to obtain the current SHA, which the
// remote API requires as an optimistic-concurrency proof for updates.
// A mutex serializes pushes; concurrent callers queue rather than interleave.
type PushService struct {
	mu          sync.Mutex
	hosts       *HostProvider
	session     *SessionState
	invalidator Invalidator
	branch      string
}

// NewPushService creates a PushService writing to the fixed main branch.
func NewPushService(hosts *HostProvider, session *SessionState, invalidator Invalidator) *PushService {
	return &PushService{
		hosts:       hosts,
		session:     session,
		invalidator: invalidator,
		branch:      DefaultBranch,
	}
}

// Push publishes one submission. commitMessage may be empty, in which case
// "<sanitizedTitle> Solved" is used. Preconditions are checked in order
// before any remote call: token present, repository selected, submission
// present. Loading and error flags are set at entry and finalized on every
// exit path.
func (s *PushService) Push(ctx context.Context, sub model.Submission, commitMessage string) (PushResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Update(func(snap *SessionSnapshot) {
		snap.PushLoading = true
		snap.PushError = ""
		snap.LastPushWritten = nil
	})
	defer s.session.Update(func(snap *SessionSnapshot) {
		snap.PushLoading = false
	})

	snap := s.session.Snapshot()

	if err := s.checkPreconditions(snap, sub); err != nil {
		s.failPush(err)
		return PushResult{}, err
	}

	host := s.hosts.Get()
	if host == nil {
		err := model.ErrNotAuthenticated
		s.failPush(err)
		return PushResult{}, err
	}

	path := SolutionPath(sub)
	repo := snap.SelectedRepo

	state, err := host.GetFileState(ctx, repo, path, s.branch)
	if err != nil {
		return PushResult{}, s.remoteFailure(ctx, "read", err)
	}

	code := []byte(sub.Code)
	if state.Exists && bytes.Equal(state.Content, code) {
		// Already up to date; skip the write so re-pushing unchanged work
		// does not generate a no-op commit.
		slog.Info("push skipped, content unchanged", "repo", repo.FullName(), "path", path)
		written := false
		s.session.Update(func(sn *SessionSnapshot) {
			sn.LastPushWritten = &written
		})
		return PushResult{Written: false, Path: path}, nil
	}

	message := commitMessage
	if message == "" {
		message = DefaultCommitMessage(sub)
	}

	put := model.FilePut{
		Message: message,
		Content: code,
		Branch:  s.branch,
	}
	if state.Exists {
		put.SHA = state.SHA
	}

	if err := host.PutFile(ctx, repo, path, put); err != nil {
		return PushResult{}, s.remoteFailure(ctx, "write", err)
	}

	slog.Info("push complete",
		"repo", repo.FullName(),
		"path", path,
		"update", state.Exists,
	)
	written := true
	s.session.Update(func(sn *SessionSnapshot) {
		sn.LastPushWritten = &written
	})
	return PushResult{Written: true, Path: path, CommitMessage: message}, nil
}

// checkPreconditions validates the session and submission in the documented
// order, each missing piece a distinct failure.
func (s *PushService) checkPreconditions(snap SessionSnapshot, sub model.Submission) error {
	switch {
	case snap.Token == "":
		return model.ErrNotAuthenticated
	case snap.SelectedRepo.IsZero():
		return model.ErrNoRepositorySelected
	case sub.IsZero():
		return model.ErrNoSubmission
	default:
		return nil
	}
}

// remoteFailure maps an error from either remote step. An authorization
// rejection triggers cross-cutting invalidation and surfaces as a
// session-expired failure; everything else is recorded as the push error.
func (s *PushService) remoteFailure(ctx context.Context, step string, err error) error {
	if errors.Is(err, driven.ErrUnauthorized) {
		slog.Warn("authorization rejected during push", "step", step)
		s.invalidator.Invalidate(ctx)
		s.failPush(model.ErrSessionExpired)
		return model.ErrSessionExpired
	}

	wrapped := fmt.Errorf("push %s step: %w", step, err)
	s.failPush(wrapped)
	return wrapped
}

// failPush records a user-visible push error in the session.
func (s *PushService) failPush(err error) {
	s.session.Update(func(snap *SessionSnapshot) {
		snap.PushError = err.Error()
	})
}
