// Package main implements the entry point for the tickprobe server, which
// serves per-user elapsed-time tickers and parallel latency probes over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file (default: ./config.yaml if present)")
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("tickprobe: %v", err)
	}
}

// run loads configuration, wires the application and serves until ctx is done.
func run(ctx context.Context, configPath string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	logger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"ticker_interval_ms", cfg.Ticker.IntervalMillis,
		"probe_latency_ms", fmt.Sprintf("%d-%d", cfg.Probe.MinLatencyMillis, cfg.Probe.MaxLatencyMillis))

	app, err := newApplication(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
