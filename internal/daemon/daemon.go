// Package daemon wires the hearth service: snapshot database, state
// store, cross-process sync poller, background scheduler, and HTTP API.
package daemon

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hearthpoints/hearth/internal/api"
	"github.com/hearthpoints/hearth/internal/app/scheduler"
	"github.com/hearthpoints/hearth/internal/app/store"
	"github.com/hearthpoints/hearth/internal/auth"
	"github.com/hearthpoints/hearth/internal/infra/statefile"
)

// Run starts the daemon and blocks until ctx is cancelled, then shuts
// the HTTP server down gracefully.
func Run(ctx context.Context, cfg Config) error {
	log := newLogger(cfg.Log)

	db, err := statefile.Open(cfg.State.Dir, log)
	if err != nil {
		return err
	}
	defer db.Close()

	payload, err := db.Load()
	if err != nil {
		return err
	}
	st, err := store.Load(payload,
		store.WithPersister(db),
		store.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	log.Info().Str("dir", cfg.State.Dir).Msg("state loaded")

	secret, err := loadOrCreateSecret(cfg.State.Dir)
	if err != nil {
		return err
	}
	issuer := auth.NewTokenIssuer(secret, cfg.Auth.TokenTTL)

	// Another process (the CLI) may write the snapshot while we run;
	// the poller folds those writes into memory.
	go db.Watch(ctx, cfg.State.SyncInterval, func(payload []byte) {
		if err := st.Replace(payload); err != nil {
			log.Warn().Err(err).Msg("external snapshot rejected")
		}
	})

	go scheduler.New(st, cfg.State.TickInterval, log).Run(ctx)

	srv := api.NewServer(st, issuer, log)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:              cfg.API.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.API.Addr()).Msg("hearth daemon listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func newLogger(cfg LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if !cfg.Pretty {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// loadOrCreateSecret reads the per-installation token signing secret,
// generating one on first run.
func loadOrCreateSecret(dir string) ([]byte, error) {
	path := filepath.Join(dir, "token.secret")
	if secret, err := os.ReadFile(path); err == nil && len(secret) >= 32 {
		return secret, nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("write token secret: %w", err)
	}
	return secret, nil
}
