package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StateStore = (*StateRepo)(nil)

// sensitiveKeys lists state keys whose values are encrypted at rest.
// Everything else (cached profile, latest submission, repo selection) is
// stored as plaintext JSON.
var sensitiveKeys = map[string]bool{
	driven.KeyToken: true,
}

// StateRepo is the SQLite implementation of the StateStore port interface.
// Sensitive values are encrypted with AES-256-GCM before write and decrypted
// after read; when no key is configured they are stored as plaintext.
type StateRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil disables encryption at rest.
}

// NewStateRepo creates a new StateRepo. key must be 32 bytes for AES-256-GCM,
// or nil to store sensitive values unencrypted.
func NewStateRepo(db *DB, key []byte) *StateRepo {
	return &StateRepo{db: db, key: key}
}

// Set stores or replaces the value for the given key.
func (r *StateRepo) Set(ctx context.Context, key, value string) error {
	stored := value
	if sensitiveKeys[key] && r.key != nil {
		encrypted, err := r.encrypt(value)
		if err != nil {
			return fmt.Errorf("encrypt state %q: %w", key, err)
		}
		stored = encrypted
	}

	const query = `INSERT OR REPLACE INTO app_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, key, stored); err != nil {
		return fmt.Errorf("set state %q: %w", key, err)
	}
	return nil
}

// Get retrieves the value for the given key.
// Returns ("", nil) if no value exists for that key.
func (r *StateRepo) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM app_state WHERE key = ?`
	var stored string
	err := r.db.Reader.QueryRowContext(ctx, query, key).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state %q: %w", key, err)
	}

	if sensitiveKeys[key] && r.key != nil {
		plaintext, err := r.decrypt(stored)
		if err != nil {
			return "", fmt.Errorf("decrypt state %q: %w", key, err)
		}
		return plaintext, nil
	}
	return stored, nil
}

// Delete removes the value for the given key. Deleting an absent key is a no-op.
func (r *StateRepo) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM app_state WHERE key = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete state %q: %w", key, err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded
// string containing the nonce (12 bytes) prepended to the ciphertext.
func (r *StateRepo) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *StateRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}
