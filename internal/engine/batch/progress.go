package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks how many scenarios of a batch run have been calculated.
// Every method is safe for concurrent use.
type Progress struct {
	total        int
	processed    int
	failed       int
	totalBatches int
	batchesDone  int
	startTime    time.Time
	lastUpdate   time.Time

	mu sync.RWMutex
}

// NewProgress creates a tracker for total items split into totalBatches.
func NewProgress(total, totalBatches int) *Progress {
	now := time.Now()
	return &Progress{
		total:        total,
		totalBatches: totalBatches,
		startTime:    now,
		lastUpdate:   now,
	}
}

// addItem records one finished item.
func (p *Progress) addItem(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	if failed {
		p.failed++
	}
	p.lastUpdate = time.Now()
}

// finishBatch records one completed batch.
func (p *Progress) finishBatch() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batchesDone++
	p.lastUpdate = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentComplete()
}

func (p *Progress) percentComplete() float64 {
	if p.total == 0 {
		return 0
	}
	return float64(p.processed) / float64(p.total) * percentMultiplier
}

// IsComplete reports whether every item has been processed.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.processed >= p.total
}

// EstimatedTimeRemaining extrapolates from the average time per item so far.
// It returns 0 before the first item finishes.
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.processed == 0 {
		return 0
	}
	perItem := time.Since(p.startTime) / time.Duration(p.processed)
	return perItem * time.Duration(p.total-p.processed)
}

// Snapshot returns a consistent copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.startTime)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.processed) / secs
	}
	return ProgressSnapshot{
		Total:           p.total,
		Processed:       p.processed,
		Failed:          p.failed,
		TotalBatches:    p.totalBatches,
		BatchesDone:     p.batchesDone,
		PercentComplete: p.percentComplete(),
		Elapsed:         elapsed,
		LastUpdate:      p.lastUpdate,
		ScenariosPerSec: rate,
	}
}

// ProgressSnapshot is an immutable copy of Progress.
type ProgressSnapshot struct {
	Total           int
	Processed       int
	Failed          int
	TotalBatches    int
	BatchesDone     int
	PercentComplete float64
	Elapsed         time.Duration
	LastUpdate      time.Time
	ScenariosPerSec float64
}
