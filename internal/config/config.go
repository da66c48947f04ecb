// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"
)

// Token storage backends.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr         string
	DBPath             string
	SecretKey          []byte // 32-byte AES-256 key, nil when unset.
	TokenBackend       string
	RevalidationWindow time.Duration
	OAuthClientID      string
}

// Load reads configuration from environment variables and returns a validated
// Config. All variables are optional with defaults: GEETCODE_LISTEN_ADDR
// (127.0.0.1:8080), GEETCODE_DB_PATH (geetcode.db), GEETCODE_TOKEN_BACKEND
// (sqlite), GEETCODE_REVALIDATION_WINDOW (168h). GEETCODE_SECRET_KEY, when
// set, must be 64 hex characters (a 32-byte AES-256 key); without it the
// token is stored unencrypted. GEETCODE_OAUTH_CLIENT_ID is required only to
// sign in; a deployment that pre-provisions the token can omit it.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("GEETCODE_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "geetcode.db"
	if v, ok := os.LookupEnv("GEETCODE_DB_PATH"); ok {
		dbPath = v
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("GEETCODE_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("GEETCODE_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("GEETCODE_SECRET_KEY must decode to 32 bytes, got %d", len(key))
		}
		secretKey = key
	}

	backend := BackendSQLite
	if v, ok := os.LookupEnv("GEETCODE_TOKEN_BACKEND"); ok && v != "" {
		if v != BackendSQLite && v != BackendKeyring {
			return nil, fmt.Errorf("GEETCODE_TOKEN_BACKEND must be %q or %q, got %q", BackendSQLite, BackendKeyring, v)
		}
		backend = v
	}

	window := 7 * 24 * time.Hour
	if v, ok := os.LookupEnv("GEETCODE_REVALIDATION_WINDOW"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GEETCODE_REVALIDATION_WINDOW has invalid duration %q: %w", v, err)
		}
		window = parsed
	}

	return &Config{
		ListenAddr:         listenAddr,
		DBPath:             dbPath,
		SecretKey:          secretKey,
		TokenBackend:       backend,
		RevalidationWindow: window,
		OAuthClientID:      os.Getenv("GEETCODE_OAUTH_CLIENT_ID"),
	}, nil
}
