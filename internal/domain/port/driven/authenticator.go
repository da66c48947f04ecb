package driven

import "context"

// Authenticator is the driven port for the external OAuth collaborator that
// produces the initial credential. The handshake itself is opaque to the
// core: success carries a token, failure carries an error.
type Authenticator interface {
	Authenticate(ctx context.Context) (token string, err error)
}
