package probe

import (
	"fmt"
	"time"
)

// Config holds the simulation parameters for probe tasks.
type Config struct {
	// MinLatency is the inclusive lower bound of a task's target latency
	MinLatency time.Duration

	// MaxLatency is the exclusive upper bound of a task's target latency
	MaxLatency time.Duration

	// Step is the sub-step between cancellation checks and failure draws
	Step time.Duration

	// FailureOdds gives a one-in-FailureOdds chance of failure per step.
	// Zero disables failures.
	FailureOdds int

	// Seed makes runs reproducible when non-zero
	Seed uint64
}

// DefaultConfig returns the reference simulation parameters.
func DefaultConfig() Config {
	return Config{
		MinLatency:  1000 * time.Millisecond,
		MaxLatency:  5000 * time.Millisecond,
		Step:        100 * time.Millisecond,
		FailureOdds: 19,
	}
}

// Validate checks that the configuration describes a usable simulation.
func (c Config) Validate() error {
	if c.MinLatency < time.Millisecond {
		return fmt.Errorf("min latency must be at least 1ms, got %s", c.MinLatency)
	}
	// Latencies are drawn in whole milliseconds.
	if c.MaxLatency.Milliseconds() <= c.MinLatency.Milliseconds() {
		return fmt.Errorf("max latency %s must exceed min latency %s by at least 1ms", c.MaxLatency, c.MinLatency)
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %s", c.Step)
	}
	if c.FailureOdds < 0 {
		return fmt.Errorf("failure odds must not be negative, got %d", c.FailureOdds)
	}
	return nil
}
