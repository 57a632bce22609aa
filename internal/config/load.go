package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "TICKPROBE"

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is like Load but reads the given config file instead of searching
// the working directory. An empty path searches for config.yaml.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal
	if err := v.BindEnv("auth.jwt_secret"); err != nil {
		return nil, fmt.Errorf("error binding environment variable for auth.jwt_secret: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.login_delay_ms", 1000)

	v.SetDefault("ticker.interval_ms", 16)

	v.SetDefault("probe.min_latency_ms", 1000)
	v.SetDefault("probe.max_latency_ms", 5000)
	v.SetDefault("probe.step_ms", 100)
	v.SetDefault("probe.failure_odds", 19)
	v.SetDefault("probe.seed", 0)
	v.SetDefault("probe.runs_per_minute", 30)
	v.SetDefault("probe.run_burst", 5)
}
