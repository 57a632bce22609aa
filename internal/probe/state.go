package probe

import (
	"fmt"

	"github.com/google/uuid"
)

// Phase is the lifecycle position of a run.
type Phase string

// Run phases. Completed is terminal.
const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseCompleted Phase = "completed"
)

// Result is the aggregate of a completed run.
type Result struct {
	// MeanLatencyMillis is the mean target latency of successful tasks.
	// It is only meaningful when NoData is false.
	MeanLatencyMillis float64 `json:"mean_latency_ms,omitempty"`

	// NoData is set when no task succeeded
	NoData bool `json:"no_data"`

	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Mean returns the mean latency and whether there was any data.
func (r Result) Mean() (float64, bool) {
	if r.NoData {
		return 0, false
	}
	return r.MeanLatencyMillis, true
}

// String renders the result for display.
func (r Result) String() string {
	if mean, ok := r.Mean(); ok {
		return fmt.Sprintf("%.0f ms", mean)
	}
	return "no data"
}

// RunState is the published state of a run.
type RunState struct {
	RunID     uuid.UUID `json:"run_id"`
	Phase     Phase     `json:"phase"`
	Requested int       `json:"requested"`

	// Result is set only in PhaseCompleted
	Result *Result `json:"result,omitempty"`
}

// Completed reports whether the run has reached its terminal state.
func (s RunState) Completed() bool {
	return s.Phase == PhaseCompleted
}

// aggregate computes the result over tasks that have all reached a terminal
// outcome. Failed and cancelled tasks are excluded from the mean.
func aggregate(tasks []Task) Result {
	var (
		sum    float64
		result Result
	)
	for _, t := range tasks {
		switch t.Outcome {
		case OutcomeSuccess:
			result.Succeeded++
			sum += float64(t.LatencyMillis)
		case OutcomeFailure:
			result.Failed++
		}
	}

	if result.Succeeded == 0 {
		result.NoData = true
		return result
	}
	result.MeanLatencyMillis = sum / float64(result.Succeeded)
	return result
}
