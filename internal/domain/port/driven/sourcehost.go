package driven

import (
	"context"
	"errors"

	"github.com/AranL152/GeetCode/internal/domain/model"
)

// ErrUnauthorized is returned by SourceHost operations when the remote host
// rejected the credential (401-class response). Receiving it on any call
// means the stored token is no longer trustworthy.
var ErrUnauthorized = errors.New("remote host rejected the credential")

// SourceHost is the driven port for the remote source-hosting API: the
// identity endpoint plus read-one / create-or-update-one on a single file
// path in a single branch. An implementation is bound to one token; a new
// token means a new SourceHost.
type SourceHost interface {
	// Verify confirms the bound token against the identity endpoint.
	// Any failure to confirm, including transport errors, is returned as an
	// error; the revalidation path deliberately fails closed.
	Verify(ctx context.Context) error

	// FetchProfile retrieves the identity behind the bound token.
	FetchProfile(ctx context.Context) (*model.UserProfile, error)

	// GetFileState reads the current state of path on the given branch.
	// A missing file is not an error: it returns Exists=false.
	GetFileState(ctx context.Context, repo model.RepoRef, path, branch string) (*model.RemoteFileState, error)

	// PutFile creates or updates path on the given branch. SHA must carry the
	// current file SHA when updating and be empty when creating; the remote
	// host uses it as an optimistic-concurrency proof.
	PutFile(ctx context.Context, repo model.RepoRef, path string, put model.FilePut) error
}
