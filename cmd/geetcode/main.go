package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/AranL152/GeetCode/internal/adapter/driven/github"
	keyringadapter "github.com/AranL152/GeetCode/internal/adapter/driven/keyring"
	oauthadapter "github.com/AranL152/GeetCode/internal/adapter/driven/oauth"
	sqliteadapter "github.com/AranL152/GeetCode/internal/adapter/driven/sqlite"
	httphandler "github.com/AranL152/GeetCode/internal/adapter/driving/http"
	"github.com/AranL152/GeetCode/internal/application"
	"github.com/AranL152/GeetCode/internal/config"
	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"token_backend", cfg.TokenBackend,
		"revalidation_window", cfg.RevalidationWindow,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire the state store; the keyring backend keeps the token in the OS
	// keychain and everything else in sqlite.
	var store driven.StateStore = sqliteadapter.NewStateRepo(db, cfg.SecretKey)
	if cfg.TokenBackend == config.BackendKeyring {
		store = keyringadapter.NewStore(store, currentUsername())
		slog.Info("token backend: os keychain")
	}

	// 6. Wire the application core around one process-wide session.
	session := application.NewSessionState()
	hosts := application.NewHostProvider(nil)
	authenticator := oauthadapter.NewDeviceFlow(cfg.OAuthClientID)

	newHost := func(token string) driven.SourceHost {
		return githubadapter.NewClient(token)
	}

	authSvc := application.NewAuthService(store, hosts, authenticator, session, newHost,
		application.WithRevalidationWindow(cfg.RevalidationWindow),
	)
	pushSvc := application.NewPushService(hosts, session, authSvc)

	// 7. Restore persisted state and run the startup credential check.
	if err := authSvc.Hydrate(ctx); err != nil {
		return err
	}
	state, err := authSvc.CheckAuthStatus(ctx)
	if err != nil {
		return err
	}
	slog.Info("startup auth check complete", "state", state)

	// 8. Create HTTP handler and register API routes.
	handler := httphandler.NewHandler(authSvc, pushSvc, session, store, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(handler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("geetcode started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// currentUsername namespaces the keychain entry per OS user.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "default"
}
