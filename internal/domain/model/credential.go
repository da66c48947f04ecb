package model

import (
	"math"
	"time"
)

// Credential is the stored GitHub access token together with the time it was
// obtained or last confirmed against the identity endpoint. CreatedAt is
// refreshed on every successful revalidation, so age always measures time
// since the token was last known good.
type Credential struct {
	Token     string
	CreatedAt time.Time
}

// IsZero reports whether no credential is stored.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// Age returns how long ago the credential was last confirmed. A zero
// CreatedAt is treated as infinitely old so it always fails a freshness check.
func (c Credential) Age(now time.Time) time.Duration {
	if c.CreatedAt.IsZero() {
		return math.MaxInt64
	}
	return now.Sub(c.CreatedAt)
}
