package probe

// Outcome is the state of a single probe task.
type Outcome string

// Possible task outcomes
const (
	OutcomePending   Outcome = "pending"
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// Terminal reports whether the outcome is final.
func (o Outcome) Terminal() bool {
	return o != OutcomePending
}

// Task is one simulated request within a run.
type Task struct {
	// ID is the task's ordinal within its run, starting at 1
	ID int `json:"id"`

	// Outcome is the task's current state
	Outcome Outcome `json:"outcome"`

	// LatencyMillis is the target latency; it only counts toward the result
	// when Outcome is OutcomeSuccess
	LatencyMillis uint64 `json:"latency_ms"`

	// Reason explains a failure
	Reason string `json:"reason,omitempty"`
}
