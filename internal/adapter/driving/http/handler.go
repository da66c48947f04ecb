// Package httphandler is the HTTP driving adapter through which the UI
// triggers sign-in, sign-out, and push-solution.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/AranL152/GeetCode/internal/application"
	"github.com/AranL152/GeetCode/internal/domain/model"
	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// Handler serves the REST API.
type Handler struct {
	authSvc *application.AuthService
	pushSvc *application.PushService
	session *application.SessionState
	store   driven.StateStore
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authSvc *application.AuthService,
	pushSvc *application.PushService,
	session *application.SessionState,
	store driven.StateStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc: authSvc,
		pushSvc: pushSvc,
		session: session,
		store:   store,
		logger:  logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request-id, logging, and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/auth/status", h.AuthStatus)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/session", h.Session)
	mux.HandleFunc("PUT /api/v1/repo", h.SelectRepo)
	mux.HandleFunc("POST /api/v1/submissions", h.RecordSubmission)
	mux.HandleFunc("POST /api/v1/push", h.Push)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// AuthStatus runs the credential check and returns the resulting session.
func (h *Handler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	state, err := h.authSvc.CheckAuthStatus(r.Context())
	if err != nil {
		h.logger.Error("auth status check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "auth status check failed")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot(), state))
}

// Login runs the OAuth handshake and establishes a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.authSvc.Authenticate(r.Context()); err != nil {
		h.logger.Warn("login failed", "error", err)
		msg := h.session.Snapshot().AuthError
		if msg == "" {
			msg = "login failed"
		}
		writeError(w, http.StatusUnauthorized, msg)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot(), model.AuthStateValid))
}

// Logout clears the credential unconditionally.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authSvc.Disconnect(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the current session snapshot without side effects.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	writeJSON(w, http.StatusOK, toSessionResponse(snap, snap.AuthState))
}

// SelectRepo records the target repository for subsequent pushes.
func (h *Handler) SelectRepo(w http.ResponseWriter, r *http.Request) {
	var req SelectRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	repo := model.RepoRef{Owner: req.Owner, Name: req.Name}
	if repo.IsZero() {
		writeError(w, http.StatusBadRequest, "owner and name are required")
		return
	}

	raw, err := json.Marshal(repo)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding repository selection")
		return
	}
	if err := h.store.Set(r.Context(), driven.KeySelectedRepository, string(raw)); err != nil {
		h.logger.Error("persisting repository selection", "error", err)
		writeError(w, http.StatusInternalServerError, "persisting repository selection")
		return
	}

	h.session.Update(func(snap *application.SessionSnapshot) {
		snap.SelectedRepo = repo
	})
	writeJSON(w, http.StatusOK, RepoResponse{Owner: repo.Owner, Name: repo.Name})
}

// RecordSubmission stores the latest submission to be pushed.
func (h *Handler) RecordSubmission(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub := model.Submission{
		ProblemTitle: req.ProblemTitle,
		Language:     req.Language,
		Code:         req.Code,
	}
	if sub.IsZero() {
		writeError(w, http.StatusBadRequest, "problem_title or code is required")
		return
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding submission")
		return
	}
	if err := h.store.Set(r.Context(), driven.KeyLatestSubmission, string(raw)); err != nil {
		h.logger.Error("persisting submission", "error", err)
		writeError(w, http.StatusInternalServerError, "persisting submission")
		return
	}

	h.session.Update(func(snap *application.SessionSnapshot) {
		snap.LatestSubmission = sub
	})
	w.WriteHeader(http.StatusAccepted)
}

// Push publishes the latest recorded submission.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	sub := h.session.Snapshot().LatestSubmission
	result, err := h.pushSvc.Push(r.Context(), sub, req.Message)
	if err != nil {
		status, msg := pushErrorStatus(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, PushResponse{
		Written:       result.Written,
		Path:          result.Path,
		CommitMessage: result.CommitMessage,
	})
}

// Health returns a liveness signal.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// pushErrorStatus maps the push error taxonomy to HTTP statuses.
func pushErrorStatus(err error) (int, string) {
	var remoteErr *model.RemoteError
	switch {
	case errors.Is(err, model.ErrNotAuthenticated), errors.Is(err, model.ErrSessionExpired):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, model.ErrNoRepositorySelected), errors.Is(err, model.ErrNoSubmission):
		return http.StatusConflict, err.Error()
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway, remoteErr.Error()
	default:
		return http.StatusBadGateway, err.Error()
	}
}
