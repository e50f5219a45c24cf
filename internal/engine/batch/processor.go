package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Batch sizing limits.
const (
	// DefaultBatchSize is the number of items handed to a BatchFunc at once.
	DefaultBatchSize = 100

	// MinBatchSize is the smallest allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the largest allowed batch size.
	MaxBatchSize = 1000
)

// Processor configuration errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
)

// ItemFunc calculates one item. index is the item's position in the input.
type ItemFunc[T, R any] func(ctx context.Context, index int, item T) R

// BatchFunc receives the results of one completed batch in input order.
type BatchFunc[R any] func(ctx context.Context, batchIndex int, results []R) error

// ProgressCallback is invoked after every finished item.
type ProgressCallback func(snapshot ProgressSnapshot)

// Processor runs items through an ItemFunc in fixed-size batches. Items of a
// batch run concurrently up to the configured limit; batches run one after
// another so at most one batch of results is held at a time.
type Processor[T, R any] struct {
	batchSize   int
	concurrency int
	failed      func(R) bool
	onProgress  ProgressCallback
}

// NewProcessor creates a processor. A concurrency below 1 uses GOMAXPROCS.
func NewProcessor[T, R any](batchSize, concurrency int) (*Processor[T, R], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Processor[T, R]{batchSize: batchSize, concurrency: concurrency}, nil
}

// WithProgressCallback sets a callback invoked after every item.
func (p *Processor[T, R]) WithProgressCallback(callback ProgressCallback) *Processor[T, R] {
	p.onProgress = callback
	return p
}

// WithFailurePredicate marks which results count as failures in progress.
func (p *Processor[T, R]) WithFailurePredicate(failed func(R) bool) *Processor[T, R] {
	p.failed = failed
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T, R]) BatchSize() int { return p.batchSize }

// Concurrency returns the configured concurrency limit.
func (p *Processor[T, R]) Concurrency() int { return p.concurrency }

// Process runs every item and hands each batch's results to done. Once ctx is
// cancelled no further items are started and ctx.Err() is returned after the
// running items finish. An error from done stops processing.
func (p *Processor[T, R]) Process(ctx context.Context, items []T, fn ItemFunc[T, R], done BatchFunc[R]) error {
	if fn == nil || done == nil {
		return ErrNilCallback
	}

	bounds := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(bounds))

	for batchIndex, b := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		results, err := p.runBatch(ctx, items, b, fn, progress)
		if err != nil {
			return err
		}
		if err := done(ctx, batchIndex, results); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}
		progress.finishBatch()
	}
	return nil
}

func (p *Processor[T, R]) runBatch(ctx context.Context, items []T, b [2]int, fn ItemFunc[T, R],
	progress *Progress,
) ([]R, error) {
	results := make([]R, b[1]-b[0])

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := b[0]; i < b[1]; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r := fn(gctx, i, items[i])
			results[i-b[0]] = r
			progress.addItem(p.failed != nil && p.failed(r))
			if p.onProgress != nil {
				p.onProgress(progress.Snapshot())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// CalculateBatches returns the [start, end) bounds of every batch.
func (p *Processor[T, R]) CalculateBatches(totalItems int) [][2]int {
	n := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		n++
	}
	out := make([][2]int, n)
	for i := range n {
		start := i * p.batchSize
		out[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return out
}
