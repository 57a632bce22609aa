package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/tickprobe/internal/config"
	"github.com/phrazzld/tickprobe/internal/platform/logger"
)

// setupAppLogger configures and initializes the application logger based on config settings.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l, nil
}
