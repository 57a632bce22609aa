package ticker

import (
	"fmt"
	"time"
)

// State is the published ticker state.
type State struct {
	Elapsed time.Duration
	Running bool
}

// Display renders the elapsed time as MM:SS.mmm.
func (s State) Display() string {
	return Format(s.Elapsed)
}

// Snapshot is the persisted form of a ticker's state.
type Snapshot struct {
	ElapsedMillis uint64 `json:"elapsed_ms"`
	Running       bool   `json:"running"`
}

// Elapsed returns the snapshot's accumulated time as a duration.
func (s Snapshot) Elapsed() time.Duration {
	return time.Duration(s.ElapsedMillis) * time.Millisecond
}

// Format renders d as MM:SS.mmm. Minutes are padded to two digits but are not
// bounded; sub-millisecond precision is truncated. Negative durations render as
// zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
