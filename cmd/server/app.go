package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tickprobe/internal/api/middleware"
	"github.com/phrazzld/tickprobe/internal/config"
	"github.com/phrazzld/tickprobe/internal/metrics"
	"github.com/phrazzld/tickprobe/internal/probe"
	"github.com/phrazzld/tickprobe/internal/service/auth"
	"github.com/phrazzld/tickprobe/internal/service/session"
	"github.com/phrazzld/tickprobe/internal/store"
	"github.com/phrazzld/tickprobe/internal/ticker"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	metrics    *metrics.Collector
	snapshots  store.SnapshotStore
	sessions   *session.Manager
	checker    auth.CredentialChecker
	jwtService auth.JWTService
	runLimiter *middleware.UserLimiter
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		metrics:   metrics.New(),
		snapshots: store.NewMemorySnapshotStore(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.checker, err = auth.NewStaticChecker(millis(cfg.Auth.LoginDelayMillis), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential checker: %w", err)
	}

	app.sessions, err = session.NewManager(
		tickerConfig(cfg.Ticker),
		probeConfig(cfg.Probe),
		app.snapshots,
		logger,
		app.metrics,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	app.runLimiter = middleware.NewUserLimiter(cfg.Probe.RunsPerMinute, cfg.Probe.RunBurst)
	if app.runLimiter == nil {
		logger.Info("probe run rate limiting disabled")
	}

	return app, nil
}

// cleanup closes every open session, saving ticker state and cancelling runs.
func (app *application) cleanup(ctx context.Context) {
	if err := app.sessions.CloseAll(ctx); err != nil {
		app.logger.Error("failed to close sessions cleanly", "error", err)
		return
	}
	app.logger.Info("all sessions closed")
}

func tickerConfig(c config.TickerConfig) ticker.Config {
	return ticker.Config{Interval: millis(c.IntervalMillis)}
}

func probeConfig(c config.ProbeConfig) probe.Config {
	return probe.Config{
		MinLatency:  millis(c.MinLatencyMillis),
		MaxLatency:  millis(c.MaxLatencyMillis),
		Step:        millis(c.StepMillis),
		FailureOdds: c.FailureOdds,
		Seed:        c.Seed,
	}
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
