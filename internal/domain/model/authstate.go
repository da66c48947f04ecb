package model

// AuthState represents where a stored credential sits in its lifecycle.
type AuthState string

const (
	AuthStateUnauthenticated AuthState = "unauthenticated"
	AuthStateValid           AuthState = "valid"
	AuthStateStaleUnchecked  AuthState = "stale_unchecked"
	AuthStateRevalidating    AuthState = "revalidating"
	AuthStateInvalidated     AuthState = "invalidated"
)
