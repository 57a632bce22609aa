package ticker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tickprobe/internal/events"
	"github.com/phrazzld/tickprobe/internal/metrics"
)

// DefaultInterval gives roughly 60 updates per second.
const DefaultInterval = 16 * time.Millisecond

// Config holds ticker settings.
type Config struct {
	// Interval is both the tick period and the amount added per tick.
	// If zero or negative, DefaultInterval is used.
	Interval time.Duration
}

// DefaultConfig returns a Config with the reference cadence.
func DefaultConfig() Config {
	return Config{Interval: DefaultInterval}
}

// Ticker accumulates elapsed time in fixed increments while running.
type Ticker struct {
	interval time.Duration
	state    *events.State[State]
	logger   *slog.Logger
	metrics  *metrics.Collector

	// mu guards cancel; cancel is non-nil exactly while a loop is active
	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a stopped ticker at zero.
func New(cfg Config, logger *slog.Logger, m *metrics.Collector) *Ticker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
		logger.Warn("invalid ticker interval specified, using default",
			"specified_interval", cfg.Interval,
			"default_interval", DefaultInterval)
	}

	return &Ticker{
		interval: interval,
		state:    events.NewState(State{}),
		logger:   logger.With("component", "ticker"),
		metrics:  m,
	}
}

// Interval returns the fixed tick size.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Start begins ticking. It is a no-op if the ticker is already running.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	t.state.Update(func(s State) (State, bool) {
		s.Running = true
		return s, true
	})

	t.metrics.TickerLoopStarted()
	go t.loop(ctx)

	t.logger.Debug("ticker started", "elapsed", t.state.Value().Elapsed)
}

// Stop cancels the tick loop. It is a no-op if the ticker is not running.
// At most one tick that was already being applied can land after Stop is
// called; it is published before the stopped state. A running state restored
// without a loop is cleared as well.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	stopped := t.stopLocked()
	_, cleared := t.state.Update(func(s State) (State, bool) {
		if !s.Running {
			return s, false
		}
		s.Running = false
		return s, true
	})
	if !stopped && !cleared {
		return
	}

	t.logger.Debug("ticker stopped", "elapsed", t.state.Value().Elapsed)
}

// Running reports whether a tick loop is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Value returns the current state.
func (t *Ticker) Value() State {
	return t.state.Value()
}

// Observe registers fn for the current state and every later change.
func (t *Ticker) Observe(fn func(State)) (cancel func()) {
	return t.state.Observe(fn)
}

// Subscribe streams state changes until ctx is done.
func (t *Ticker) Subscribe(ctx context.Context) <-chan State {
	return t.state.Subscribe(ctx)
}

// Save returns the persisted form of the current state.
func (t *Ticker) Save() Snapshot {
	s := t.state.Value()
	return Snapshot{
		ElapsedMillis: uint64(s.Elapsed.Milliseconds()),
		Running:       s.Running,
	}
}

// Restore replaces the state with a saved snapshot. Any active loop is cancelled
// and the ticker does not resume ticking on its own; when snap.Running is true the
// caller is expected to call Start.
func (t *Ticker) Restore(snap Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.state.Emit(State{
		Elapsed: snap.Elapsed(),
		Running: snap.Running,
	})

	t.logger.Debug("ticker restored",
		"elapsed_ms", snap.ElapsedMillis,
		"running", snap.Running)
}

// stopLocked cancels the active loop, reporting whether there was one.
// Callers must hold t.mu.
func (t *Ticker) stopLocked() bool {
	if t.cancel == nil {
		return false
	}
	t.cancel()
	t.cancel = nil
	return true
}

// loop applies one fixed increment per interval until ctx is cancelled.
func (t *Ticker) loop(ctx context.Context) {
	defer t.metrics.TickerLoopStopped()

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			_, applied := t.state.Update(func(s State) (State, bool) {
				// Checked under the state's delivery lock so a tick can never
				// land after the stopped state has been published.
				if ctx.Err() != nil || !s.Running {
					return s, false
				}
				s.Elapsed += t.interval
				return s, true
			})
			if !applied {
				return
			}
			t.metrics.TickerTick()
		}
	}
}
