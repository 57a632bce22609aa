// Package metrics exposes Prometheus collectors for the ticker and probe
// components. A nil *Collector is valid and records nothing, so components can be
// constructed without metrics in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tickprobe"

// Probe run results used as label values.
const (
	RunResultData      = "data"
	RunResultNoData    = "no_data"
	RunResultCancelled = "cancelled"
)

// Collector owns a private registry and the application collectors.
type Collector struct {
	registry *prometheus.Registry

	tickerTicks  prometheus.Counter
	tickerLoops  prometheus.Gauge
	probeTasks   *prometheus.CounterVec
	probeRuns    *prometheus.CounterVec
	probeRunTime prometheus.Histogram
	sessions     prometheus.Gauge
}

// New creates a Collector with all collectors registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		tickerTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ticker",
			Name:      "ticks_total",
			Help:      "Fixed-interval increments applied by running tickers.",
		}),
		tickerLoops: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ticker",
			Name:      "running_loops",
			Help:      "Ticker loops currently running.",
		}),
		probeTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "tasks_total",
			Help:      "Simulated probe tasks by terminal outcome.",
		}, []string{"outcome"}),
		probeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "runs_total",
			Help:      "Probe runs by result.",
		}, []string{"result"}),
		probeRunTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock time from launch to join of probe runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_sessions",
			Help:      "Sessions currently open.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.tickerTicks,
		c.tickerLoops,
		c.probeTasks,
		c.probeRuns,
		c.probeRunTime,
		c.sessions,
	)

	return c
}

// Registry returns the registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// TickerTick records one applied tick.
func (c *Collector) TickerTick() {
	if c == nil {
		return
	}
	c.tickerTicks.Inc()
}

// TickerLoopStarted records a ticker loop starting.
func (c *Collector) TickerLoopStarted() {
	if c == nil {
		return
	}
	c.tickerLoops.Inc()
}

// TickerLoopStopped records a ticker loop exiting.
func (c *Collector) TickerLoopStopped() {
	if c == nil {
		return
	}
	c.tickerLoops.Dec()
}

// ProbeTask records a task reaching the given terminal outcome.
func (c *Collector) ProbeTask(outcome string) {
	if c == nil {
		return
	}
	c.probeTasks.WithLabelValues(outcome).Inc()
}

// ProbeRun records a finished or cancelled run.
func (c *Collector) ProbeRun(result string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.probeRuns.WithLabelValues(result).Inc()
	c.probeRunTime.Observe(elapsed.Seconds())
}

// SessionOpened records a session being opened.
func (c *Collector) SessionOpened() {
	if c == nil {
		return
	}
	c.sessions.Inc()
}

// SessionClosed records a session being closed.
func (c *Collector) SessionClosed() {
	if c == nil {
		return
	}
	c.sessions.Dec()
}
