// Package keyring stores the access token in the operating system keychain
// instead of the database, keeping the secret out of the SQLite file entirely.
// Non-secret state keys are delegated to a fallback StateStore.
package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// service is the keychain service name under which the token is filed.
const service = "geetcode"

// Compile-time interface satisfaction check.
var _ driven.StateStore = (*Store)(nil)

// Store implements the StateStore port with the token held in the OS keychain
// and all other keys passed through to the wrapped store.
type Store struct {
	fallback driven.StateStore
	user     string
}

// NewStore wraps fallback so that the token key is routed to the OS keychain.
// user namespaces the keychain entry; the OS username is a reasonable value.
func NewStore(fallback driven.StateStore, user string) *Store {
	return &Store{fallback: fallback, user: user}
}

// Get retrieves the value for key. The token comes from the keychain; a
// missing keychain entry maps to ("", nil) like the sqlite store.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if key != driven.KeyToken {
		return s.fallback.Get(ctx, key)
	}

	secret, err := keyring.Get(service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return secret, nil
}

// Set stores the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key != driven.KeyToken {
		return s.fallback.Set(ctx, key, value)
	}

	if err := keyring.Set(service, s.user, value); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

// Delete removes the value for key. Deleting an absent token is a no-op so
// sign-out always succeeds.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key != driven.KeyToken {
		return s.fallback.Delete(ctx, key)
	}

	err := keyring.Delete(service, s.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}
