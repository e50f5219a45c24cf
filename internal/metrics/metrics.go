// Package metrics records Prometheus metrics for batch scenario runs and
// exports them in the node exporter textfile format.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "homeenergy"

// Scenario status label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Recorder bundles the batch run collectors. It satisfies batch.Observer.
type Recorder struct {
	gatherer prometheus.Gatherer

	Scenarios        *prometheus.CounterVec
	ScenarioDuration prometheus.Histogram
	Batches          prometheus.Counter
	BatchDuration    prometheus.Histogram
	LastRun          prometheus.Gauge
}

// NewRecorder registers the collectors against reg. A nil reg uses a fresh
// private registry so repeated runs in one process do not collide.
func NewRecorder(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	scenarios, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenarios_total",
		Help:      "Scenarios calculated, labeled by status.",
	}, []string{"status"}))
	if err != nil {
		return nil, err
	}
	scenarioDuration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scenario_duration_seconds",
		Help:      "Time to calculate one scenario.",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	}))
	if err != nil {
		return nil, err
	}
	batches, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_total",
		Help:      "Batches of scenarios completed.",
	}))
	if err != nil {
		return nil, err
	}
	batchDuration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Time to calculate one batch of scenarios.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}))
	if err != nil {
		return nil, err
	}
	lastRun, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the most recent completed batch.",
	}))
	if err != nil {
		return nil, err
	}

	return &Recorder{
		gatherer:         reg,
		Scenarios:        scenarios,
		ScenarioDuration: scenarioDuration,
		Batches:          batches,
		BatchDuration:    batchDuration,
		LastRun:          lastRun,
	}, nil
}

// ObserveScenario counts one scenario and its calculation time.
func (r *Recorder) ObserveScenario(d time.Duration, err error) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	r.Scenarios.WithLabelValues(status).Inc()
	r.ScenarioDuration.Observe(d.Seconds())
}

// ObserveBatch counts one completed batch.
func (r *Recorder) ObserveBatch(_ int, d time.Duration) {
	if r == nil {
		return
	}
	r.Batches.Inc()
	r.BatchDuration.Observe(d.Seconds())
	r.LastRun.SetToCurrentTime()
}

// WriteTextfile writes every collected metric to path for the node exporter
// textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.gatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

// register adds c to reg, returning the existing collector when an identical
// one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		return c, err
	}
	return c, nil
}
