package driven

import "context"

// Keys used in the persistent state store. There is no schema versioning;
// unknown keys are simply absent.
const (
	KeyToken              = "token"
	KeyTokenCreatedAt     = "tokenCreatedAt"
	KeyUserProfile        = "userProfile"
	KeyLatestSubmission   = "latestSubmission"
	KeySelectedRepository = "selectedRepository"
)

// StateStore is the driven port for the host's persistent key-value store.
// Get returns ("", nil) when no value exists for the key, so callers
// distinguish "absent" from "failed to read".
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
