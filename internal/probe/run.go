package probe

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tickprobe/internal/events"
)

// Run is a single probe run. Its state stream carries Running and, unless the
// run is cancelled, exactly one Completed state as the last emission.
type Run struct {
	id     uuid.UUID
	state  *events.State[RunState]
	cancel context.CancelFunc

	// tasks holds one slot per task; each task goroutine writes only its own slot
	tasks []Task

	// done is closed once every task is terminal and the run has settled
	done chan struct{}

	mu        sync.Mutex
	cancelled bool
}

func newRun(n int, cancel context.CancelFunc) *Run {
	id := uuid.New()
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{ID: i + 1, Outcome: OutcomePending}
	}

	return &Run{
		id: id,
		state: events.NewState(RunState{
			RunID:     id,
			Phase:     PhaseRunning,
			Requested: n,
		}),
		cancel: cancel,
		tasks:  tasks,
		done:   make(chan struct{}),
	}
}

// ID returns the run's unique identifier.
func (r *Run) ID() uuid.UUID {
	return r.id
}

// Value returns the run's latest state.
func (r *Run) Value() RunState {
	return r.state.Value()
}

// Observe registers fn for the run's current state and later changes.
func (r *Run) Observe(fn func(RunState)) (cancel func()) {
	return r.state.Observe(fn)
}

// Subscribe streams the run's state until ctx is done.
func (r *Run) Subscribe(ctx context.Context) <-chan RunState {
	return r.state.Subscribe(ctx)
}

// Cancel stops all outstanding tasks. A cancelled run publishes nothing further.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed once the run has settled, either completed or cancelled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run settles or ctx is done. It returns the completed
// state, or ErrRunCancelled if the run was cancelled.
func (r *Run) Wait(ctx context.Context) (RunState, error) {
	select {
	case <-ctx.Done():
		return RunState{}, ctx.Err()
	case <-r.Done():
	}

	if r.Cancelled() {
		return RunState{}, ErrRunCancelled
	}
	return r.state.Value(), nil
}

// Cancelled reports whether the run settled without completing.
func (r *Run) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// Tasks returns the per-task outcomes once the run has settled, or nil while it
// is still in flight.
func (r *Run) Tasks() []Task {
	select {
	case <-r.Done():
	default:
		return nil
	}

	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// settle marks the run finished and releases its context.
func (r *Run) settle(cancelled bool) {
	r.mu.Lock()
	r.cancelled = cancelled
	r.mu.Unlock()

	r.cancel()
	close(r.done)
}
