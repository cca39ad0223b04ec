// Package main is the entry point for the identity and organisation
// service. Configuration is read from CLI flags, environment variables, and
// an optional YAML config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/lawwee/hng11-stage-two/internal/auth"
	"github.com/lawwee/hng11-stage-two/internal/config"
	"github.com/lawwee/hng11-stage-two/internal/identity"
	"github.com/lawwee/hng11-stage-two/internal/identity/memory"
	"github.com/lawwee/hng11-stage-two/internal/identity/postgres"
	"github.com/lawwee/hng11-stage-two/internal/server"
	"github.com/lawwee/hng11-stage-two/internal/service"
)

const version = "1.0.0"

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	setupLogging(cfg.LogLevel)

	var store identity.Store
	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		store = postgres.New(db)
		slog.Info("Using postgres store")
	} else {
		store = memory.New()
		slog.Warn("No database DSN configured, using in-memory store")
	}

	tokens := auth.NewTokens(cfg.JWTSecret)
	svc := service.New(store, tokens, cfg.JWTIssuer, cfg.TokenTTL)
	handler := server.NewRouter(svc, tokens, cfg.JWTIssuer, version)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server started", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// setupLogging installs a tint handler as the default slog logger.
func setupLogging(level string) {
	ll := &slog.LevelVar{}
	switch level {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		ll.Set(slog.LevelInfo)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}
