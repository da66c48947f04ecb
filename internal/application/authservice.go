package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AranL152/GeetCode/internal/domain/model"
	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// DefaultRevalidationWindow is how long a stored credential is trusted before
// it must be re-confirmed against the identity endpoint.
const DefaultRevalidationWindow = 7 * 24 * time.Hour

// sessionExpiredMessage is the user-visible error set whenever a credential
// is invalidated.
const sessionExpiredMessage = "session expired: sign in again"

// HostFactory builds a SourceHost bound to the given token. It exists so the
// service can mint a fresh host after sign-in or revalidation without
// depending on a concrete adapter.
type HostFactory func(token string) driven.SourceHost

// AuthService owns the credential lifecycle: deciding whether a stored token
// is usable, stale, or invalid, driving revalidation, and handling sign-in and
// sign-out. A mutex serializes its operations with each other and with
// cross-cutting invalidation; concurrent callers queue rather than interleave.
type AuthService struct {
	mu      sync.Mutex
	store   driven.StateStore
	hosts   *HostProvider
	auth    driven.Authenticator
	session *SessionState
	newHost HostFactory
	window  time.Duration
	now     func() time.Time
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithRevalidationWindow overrides the default 7-day freshness window.
func WithRevalidationWindow(d time.Duration) AuthOption {
	return func(s *AuthService) { s.window = d }
}

// WithClock overrides the time source. Tests use this to probe the freshness
// boundary.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	store driven.StateStore,
	hosts *HostProvider,
	auth driven.Authenticator,
	session *SessionState,
	newHost HostFactory,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		store:   store,
		hosts:   hosts,
		auth:    auth,
		session: session,
		newHost: newHost,
		window:  DefaultRevalidationWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the persisted repository selection and latest submission into
// the session. Called once at startup, before CheckAuthStatus.
func (s *AuthService) Hydrate(ctx context.Context) error {
	var repo model.RepoRef
	if raw, err := s.store.Get(ctx, driven.KeySelectedRepository); err != nil {
		return fmt.Errorf("loading repository selection: %w", err)
	} else if raw != "" {
		if err := json.Unmarshal([]byte(raw), &repo); err != nil {
			return fmt.Errorf("decoding repository selection: %w", err)
		}
	}

	var sub model.Submission
	if raw, err := s.store.Get(ctx, driven.KeyLatestSubmission); err != nil {
		return fmt.Errorf("loading latest submission: %w", err)
	} else if raw != "" {
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return fmt.Errorf("decoding latest submission: %w", err)
		}
	}

	s.session.Update(func(snap *SessionSnapshot) {
		snap.SelectedRepo = repo
		snap.LatestSubmission = sub
	})
	return nil
}

// CheckAuthStatus decides whether the stored credential is usable. A fresh
// credential is trusted without a remote call; a stale one is revalidated
// against the identity endpoint, failing closed on any error. The returned
// state is Unauthenticated, Valid, or Invalidated.
func (s *AuthService) CheckAuthStatus(ctx context.Context) (model.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthLoading = true
		snap.AuthError = ""
	})
	defer s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthLoading = false
	})

	cred, err := s.loadCredential(ctx)
	if err != nil {
		return model.AuthStateUnauthenticated, err
	}
	if cred.IsZero() {
		s.session.Update(func(snap *SessionSnapshot) {
			snap.AuthState = model.AuthStateUnauthenticated
			snap.Token = ""
		})
		return model.AuthStateUnauthenticated, nil
	}

	if cred.Age(s.now()) <= s.window {
		// Fast path: trusted without a remote call.
		host := s.hosts.Get()
		if host == nil {
			host = s.newHost(cred.Token)
		}
		s.adoptCredentialLocked(cred.Token, host)
		s.loadCachedProfile(ctx)
		return model.AuthStateValid, nil
	}

	slog.Info("stored credential is stale, revalidating", "age", cred.Age(s.now()).Round(time.Second))
	s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthState = model.AuthStateRevalidating
	})

	host := s.newHost(cred.Token)
	if err := host.Verify(ctx); err != nil {
		slog.Warn("credential revalidation failed", "error", err)
		s.invalidateLocked(ctx)
		return model.AuthStateInvalidated, nil
	}

	if err := s.store.Set(ctx, driven.KeyTokenCreatedAt, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return model.AuthStateUnauthenticated, fmt.Errorf("refreshing credential timestamp: %w", err)
	}
	s.adoptCredentialLocked(cred.Token, host)
	s.refreshProfile(ctx, host)
	return model.AuthStateValid, nil
}

// Authenticate requests a new credential from the OAuth collaborator. On
// success the token is persisted with a fresh timestamp and the profile is
// fetched; on failure the prior state is left unchanged except loading flags.
func (s *AuthService) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthLoading = true
		snap.AuthError = ""
	})
	defer s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthLoading = false
	})

	token, err := s.auth.Authenticate(ctx)
	if err != nil {
		s.session.Update(func(snap *SessionSnapshot) {
			snap.AuthError = err.Error()
		})
		return fmt.Errorf("authenticating: %w", err)
	}

	if err := s.store.Set(ctx, driven.KeyToken, token); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	if err := s.store.Set(ctx, driven.KeyTokenCreatedAt, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("persisting token timestamp: %w", err)
	}

	// Always mint a fresh host: any live one is bound to the old token.
	host := s.newHost(token)
	s.adoptCredentialLocked(token, host)
	s.refreshProfile(ctx, host)
	slog.Info("authenticated")
	return nil
}

// Disconnect clears the credential and session unconditionally. It always
// succeeds; storage errors are logged, not surfaced, because there is nothing
// a signed-out user can do about them.
func (s *AuthService) Disconnect(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearStoredCredential(ctx)
	s.hosts.Replace(nil)
	s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthState = model.AuthStateUnauthenticated
		snap.Token = ""
		snap.AuthError = ""
	})
	slog.Info("disconnected")
}

// Invalidate is the cross-cutting transition forced by any consumer that
// receives an authorization rejection on an unrelated remote call. It does
// not depend on the freshness timer.
func (s *AuthService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked(ctx)
}

// invalidateLocked clears persisted and in-memory credential state and leaves
// the session unauthenticated with a user-visible session-expired message.
// Callers must hold s.mu.
func (s *AuthService) invalidateLocked(ctx context.Context) {
	s.clearStoredCredential(ctx)
	s.hosts.Replace(nil)
	s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthState = model.AuthStateUnauthenticated
		snap.Token = ""
		snap.AuthError = sessionExpiredMessage
	})
	slog.Warn("credential invalidated")
}

// adoptCredentialLocked makes token the live credential: the provider holds
// the host bound to it and the session exposes it. Callers must hold s.mu.
func (s *AuthService) adoptCredentialLocked(token string, host driven.SourceHost) {
	s.hosts.Replace(host)
	s.session.Update(func(snap *SessionSnapshot) {
		snap.AuthState = model.AuthStateValid
		snap.Token = token
	})
}

// loadCredential reads the persisted token and its creation timestamp.
// A missing or unparseable timestamp yields a zero CreatedAt, which always
// fails the freshness check and forces revalidation.
func (s *AuthService) loadCredential(ctx context.Context) (model.Credential, error) {
	token, err := s.store.Get(ctx, driven.KeyToken)
	if err != nil {
		return model.Credential{}, fmt.Errorf("loading token: %w", err)
	}
	if token == "" {
		return model.Credential{}, nil
	}

	cred := model.Credential{Token: token}
	raw, err := s.store.Get(ctx, driven.KeyTokenCreatedAt)
	if err != nil {
		return model.Credential{}, fmt.Errorf("loading token timestamp: %w", err)
	}
	if raw != "" {
		if ts, parseErr := time.Parse(time.RFC3339Nano, raw); parseErr == nil {
			cred.CreatedAt = ts
		} else {
			slog.Warn("unparseable token timestamp, forcing revalidation", "value", raw)
		}
	}
	return cred, nil
}

// clearStoredCredential removes every credential-related key. Best effort:
// failures are logged and the in-memory state is cleared regardless.
func (s *AuthService) clearStoredCredential(ctx context.Context) {
	for _, key := range []string{driven.KeyToken, driven.KeyTokenCreatedAt, driven.KeyUserProfile} {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Error("clearing stored credential", "key", key, "error", err)
		}
	}
}

// refreshProfile fetches and caches the identity behind the live token.
// Best effort: on failure the profile simply stays unset.
func (s *AuthService) refreshProfile(ctx context.Context, host driven.SourceHost) {
	profile, err := host.FetchProfile(ctx)
	if err != nil {
		slog.Debug("profile fetch failed", "error", err)
		return
	}

	s.session.Update(func(snap *SessionSnapshot) {
		snap.User = profile
	})

	if raw, err := json.Marshal(profile); err == nil {
		if err := s.store.Set(ctx, driven.KeyUserProfile, string(raw)); err != nil {
			slog.Debug("caching profile failed", "error", err)
		}
	}
}

// loadCachedProfile restores the cached profile on the fast path, where no
// remote call is made.
func (s *AuthService) loadCachedProfile(ctx context.Context) {
	raw, err := s.store.Get(ctx, driven.KeyUserProfile)
	if err != nil || raw == "" {
		return
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		slog.Debug("cached profile unreadable", "error", err)
		return
	}

	s.session.Update(func(snap *SessionSnapshot) {
		snap.User = &profile
	})
}
