package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth" validate:"required"`
	Ticker TickerConfig `mapstructure:"ticker" validate:"required"`
	Probe  ProbeConfig  `mapstructure:"probe" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// AuthConfig contains the login stub and token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	// LoginDelayMillis simulates the latency of the credential check
	LoginDelayMillis int `mapstructure:"login_delay_ms" validate:"gte=0"`
}

// TickerConfig contains the elapsed-time ticker settings.
type TickerConfig struct {
	IntervalMillis int `mapstructure:"interval_ms" validate:"gt=0"`
}

// ProbeConfig contains the simulated request settings.
type ProbeConfig struct {
	MinLatencyMillis int    `mapstructure:"min_latency_ms" validate:"gt=0"`
	MaxLatencyMillis int    `mapstructure:"max_latency_ms" validate:"gtfield=MinLatencyMillis"`
	StepMillis       int    `mapstructure:"step_ms" validate:"gt=0"`
	FailureOdds      int    `mapstructure:"failure_odds" validate:"gte=0"`
	Seed             uint64 `mapstructure:"seed"`

	// RunsPerMinute limits how often each user may launch a run; zero disables the limit
	RunsPerMinute float64 `mapstructure:"runs_per_minute" validate:"gte=0"`
	RunBurst      int     `mapstructure:"run_burst" validate:"gte=1"`
}
