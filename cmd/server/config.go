package main

import (
	"fmt"

	"github.com/phrazzld/tickprobe/internal/config"
)

// loadAppConfig loads the application configuration from environment variables
// and the config file at path, or ./config.yaml when path is empty.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
