package probe

import "errors"

// Common probe errors
var (
	// ErrInvalidTaskCount is returned when a run is requested with fewer than one task
	ErrInvalidTaskCount = errors.New("task count must be positive")

	// ErrRunCancelled is returned by Wait when the run was cancelled before completing
	ErrRunCancelled = errors.New("probe run cancelled")

	// ErrProbeClosed is returned when a run is requested on a closed probe
	ErrProbeClosed = errors.New("probe is closed")

	// errSimulatedFailure is the reason recorded for tasks that hit a failure draw
	errSimulatedFailure = errors.New("network request failed")
)
