package probe

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/phrazzld/tickprobe/internal/events"
	"github.com/phrazzld/tickprobe/internal/metrics"
)

// Probe launches runs and publishes the state of the most recent one.
type Probe struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Collector

	// state mirrors the latest run; emissions happen under mu so a superseded
	// run can never publish after its successor
	state *events.State[RunState]

	mu      sync.Mutex
	current *Run
	closed  bool
	runs    uint64
}

// New creates an idle probe. It returns an error if cfg is invalid.
func New(cfg Config, logger *slog.Logger, m *metrics.Collector) (*Probe, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid probe config: %w", err)
	}

	return &Probe{
		cfg:     cfg,
		logger:  logger.With("component", "probe"),
		metrics: m,
		state:   events.NewState(RunState{Phase: PhaseIdle}),
	}, nil
}

// Run starts a run of n concurrent tasks and returns immediately. The run is
// published as Running before Run returns. The run is cancelled when ctx is
// done, when the probe is closed, or when a newer run supersedes it.
func (p *Probe) Run(ctx context.Context, n int) (*Run, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTaskCount, n)
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := newRun(n, cancel)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		cancel()
		return nil, ErrProbeClosed
	}
	if p.current != nil {
		p.current.Cancel()
	}
	p.current = run
	p.runs++
	seed := p.cfg.Seed + p.runs
	p.state.Emit(run.Value())
	p.mu.Unlock()

	p.logger.Info("probe run started", "run_id", run.ID(), "task_count", n)

	go p.execute(runCtx, run, seed)

	return run, nil
}

// Value returns the latest published run state.
func (p *Probe) Value() RunState {
	return p.state.Value()
}

// Observe registers fn for the latest run state and later changes. Observers
// must not call back into the probe.
func (p *Probe) Observe(fn func(RunState)) (cancel func()) {
	return p.state.Observe(fn)
}

// Subscribe streams the latest run state until ctx is done.
func (p *Probe) Subscribe(ctx context.Context) <-chan RunState {
	return p.state.Subscribe(ctx)
}

// Current returns the most recent run, or nil if none was started.
func (p *Probe) Current() *Run {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Close cancels any outstanding run and rejects further runs.
func (p *Probe) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.current != nil {
		p.current.Cancel()
	}
}

// publish mirrors a run's state to the probe stream if the run is still current.
func (p *Probe) publish(run *Run, s RunState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == run {
		p.state.Emit(s)
	}
}

// execute fans out the tasks, joins them and publishes the result.
func (p *Probe) execute(ctx context.Context, run *Run, seed uint64) {
	started := time.Now()
	logger := p.logger.With("run_id", run.ID())

	var wg sync.WaitGroup
	for i := range run.tasks {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			rng := p.newRand(seed, uint64(slot))
			run.tasks[slot] = p.simulate(ctx, slot+1, rng, logger)
		}(i)
	}
	wg.Wait()

	if ctx.Err() != nil {
		run.settle(true)
		p.metrics.ProbeRun(metrics.RunResultCancelled, time.Since(started))
		logger.Info("probe run cancelled", "elapsed", time.Since(started))
		return
	}

	result := aggregate(run.tasks)
	completed := RunState{
		RunID:     run.ID(),
		Phase:     PhaseCompleted,
		Requested: len(run.tasks),
		Result:    &result,
	}
	run.state.Emit(completed)
	p.publish(run, completed)
	run.settle(false)

	label := metrics.RunResultData
	if result.NoData {
		label = metrics.RunResultNoData
	}
	p.metrics.ProbeRun(label, time.Since(started))

	logger.Info("probe run completed",
		"result", result.String(),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"elapsed", time.Since(started))
}

// simulate runs one task to a terminal outcome.
func (p *Probe) simulate(ctx context.Context, id int, rng *rand.Rand, logger *slog.Logger) (task Task) {
	task = Task{ID: id, Outcome: OutcomePending}

	defer func() {
		if r := recover(); r != nil {
			task.Outcome = OutcomeFailure
			task.Reason = fmt.Sprintf("panic: %v", r)
			logger.Error("probe task panicked", "task_id", id, "panic", r)
		}
		p.metrics.ProbeTask(string(task.Outcome))
		logger.Debug("probe task resolved",
			"task_id", id,
			"outcome", task.Outcome,
			"latency_ms", task.LatencyMillis)
	}()

	minMillis := p.cfg.MinLatency.Milliseconds()
	spread := p.cfg.MaxLatency.Milliseconds() - minMillis
	targetMillis := minMillis + rng.Int64N(spread)
	target := time.Duration(targetMillis) * time.Millisecond
	task.LatencyMillis = uint64(targetMillis)

	timer := time.NewTimer(p.cfg.Step)
	defer timer.Stop()

	for progress := time.Duration(0); progress < target; progress += p.cfg.Step {
		if ctx.Err() != nil {
			task.Outcome = OutcomeCancelled
			return task
		}
		if p.cfg.FailureOdds > 0 && rng.IntN(p.cfg.FailureOdds) == 0 {
			task.Outcome = OutcomeFailure
			task.Reason = errSimulatedFailure.Error()
			return task
		}

		timer.Reset(p.cfg.Step)
		select {
		case <-ctx.Done():
			task.Outcome = OutcomeCancelled
			return task
		case <-timer.C:
		}
	}

	task.Outcome = OutcomeSuccess
	return task
}

// newRand returns a per-task generator. With a configured seed the sequence is
// reproducible; otherwise it is seeded from the global source.
func (p *Probe) newRand(seed, slot uint64) *rand.Rand {
	if p.cfg.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, slot))
}
