package batch

import (
	"context"
	"time"

	"github.com/carboncoop/homeenergy/internal/engine"
	"github.com/carboncoop/homeenergy/internal/logging"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// Job is one named scenario to calculate. The runner owns Record once the
// job is submitted.
type Job struct {
	// Name identifies the scenario in logs and output file names.
	Name string

	// Record is the scenario input; it is calculated in place.
	Record scenario.Record
}

// Outcome is the calculated record of one job.
type Outcome struct {
	Name     string
	Record   scenario.Record
	Err      error
	Duration time.Duration
}

// Failed reports whether the engine stored an error for the scenario.
func (o Outcome) Failed() bool { return o.Err != nil }

// Observer receives a callback for every calculated scenario and batch.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveScenario(d time.Duration, err error)
	ObserveBatch(size int, d time.Duration)
}

// Sink receives each completed batch of outcomes in input order.
type Sink func(ctx context.Context, outcomes []Outcome) error

// Summary describes a finished batch run.
type Summary struct {
	RunID     string
	Scenarios int
	Failed    int
	Duration  time.Duration
}

// Runner calculates many scenarios in parallel.
type Runner struct {
	engine    *engine.Engine
	processor *Processor[Job, Outcome]
	observer  Observer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithObserver registers o for per-scenario and per-batch callbacks.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) { r.observer = o }
}

// WithProgress registers a progress callback. It may be called from several
// goroutines at once.
func WithProgress(cb ProgressCallback) RunnerOption {
	return func(r *Runner) { r.processor.WithProgressCallback(cb) }
}

// NewRunner creates a runner that calculates with e, batchSize scenarios at a
// time and at most concurrency scenarios in parallel.
func NewRunner(e *engine.Engine, batchSize, concurrency int, opts ...RunnerOption) (*Runner, error) {
	p, err := NewProcessor[Job, Outcome](batchSize, concurrency)
	if err != nil {
		return nil, err
	}
	p.WithFailurePredicate(Outcome.Failed)

	r := &Runner{engine: e, processor: p}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run calculates every job and streams outcomes to sink batch by batch. A
// failed scenario does not stop the run; cancelling ctx does.
func (r *Runner) Run(ctx context.Context, jobs []Job, sink Sink) (Summary, error) {
	runID := logging.NewTraceID()
	ctx = logging.ContextWithTraceID(ctx, runID)
	log := logging.FromContext(ctx).With().
		Str("component", "batch").
		Str("run_id", runID).
		Logger()
	ctx = log.WithContext(ctx)

	summary := Summary{RunID: runID}
	start := time.Now()
	log.Info().Ctx(ctx).
		Int("scenarios", len(jobs)).
		Int("batch_size", r.processor.BatchSize()).
		Int("concurrency", r.processor.Concurrency()).
		Msg("batch run started")

	batchStart := time.Now()
	err := r.processor.Process(ctx, jobs, r.calculate, func(ctx context.Context, index int, outcomes []Outcome) error {
		for _, o := range outcomes {
			summary.Scenarios++
			if o.Failed() {
				summary.Failed++
			}
		}
		if r.observer != nil {
			r.observer.ObserveBatch(len(outcomes), time.Since(batchStart))
		}
		log.Info().Ctx(ctx).
			Int("batch", index).
			Int("scenarios", len(outcomes)).
			Dur("duration", time.Since(batchStart)).
			Msg("batch completed")
		batchStart = time.Now()

		if sink == nil {
			return nil
		}
		return sink(ctx, outcomes)
	})

	summary.Duration = time.Since(start)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Int("completed", summary.Scenarios).Msg("batch run stopped")
		return summary, err
	}
	log.Info().Ctx(ctx).
		Int("scenarios", summary.Scenarios).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("batch run finished")
	return summary, nil
}

func (r *Runner) calculate(ctx context.Context, _ int, job Job) Outcome {
	log := logging.FromContext(ctx).With().Str("scenario", job.Name).Logger()
	ctx = log.WithContext(ctx)

	start := time.Now()
	rec := r.engine.Run(ctx, job.Record)
	o := Outcome{
		Name:     job.Name,
		Record:   rec,
		Err:      engine.Err(rec),
		Duration: time.Since(start),
	}
	if r.observer != nil {
		r.observer.ObserveScenario(o.Duration, o.Err)
	}
	return o
}
