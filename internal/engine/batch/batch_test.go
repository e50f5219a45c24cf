package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carboncoop/homeenergy/internal/engine"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

func square(_ context.Context, _ int, v int) int { return v * v }

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("OrderPreserved", func(t *testing.T) {
		p, err := NewProcessor[int, int](10, 4)
		require.NoError(t, err)

		var got []int
		var batches []int
		err = p.Process(context.Background(), items, square, func(_ context.Context, index int, results []int) error {
			batches = append(batches, index)
			got = append(got, results...)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, batches)
		require.Len(t, got, 25)
		for i, v := range got {
			assert.Equal(t, i*i, v)
		}
	})

	t.Run("ConcurrencyLimit", func(t *testing.T) {
		p, err := NewProcessor[int, int](25, 3)
		require.NoError(t, err)

		var running, peak int32
		slow := func(_ context.Context, _ int, v int) int {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return v
		}
		require.NoError(t, p.Process(context.Background(), items, slow, func(context.Context, int, []int) error { return nil }))
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	})

	t.Run("BatchError", func(t *testing.T) {
		p, _ := NewProcessor[int, int](10, 2)
		err := p.Process(context.Background(), items, square, func(_ context.Context, index int, _ []int) error {
			if index == 1 {
				return errors.New("disk full")
			}
			return nil
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, _ := NewProcessor[int, int](5, 1)
		ctx, cancel := context.WithCancel(context.Background())
		var calls int32
		fn := func(_ context.Context, _ int, v int) int {
			if atomic.AddInt32(&calls, 1) == 3 {
				cancel()
			}
			return v
		}
		err := p.Process(ctx, items, fn, func(context.Context, int, []int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, atomic.LoadInt32(&calls), int32(len(items)))
	})

	t.Run("NilCallback", func(t *testing.T) {
		p, _ := NewProcessor[int, int](DefaultBatchSize, 1)
		assert.ErrorIs(t, p.Process(context.Background(), items, nil, nil), ErrNilCallback)
	})

	t.Run("Empty", func(t *testing.T) {
		p, _ := NewProcessor[int, int](DefaultBatchSize, 1)
		called := false
		err := p.Process(context.Background(), nil, square, func(context.Context, int, []int) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int, int](0, 1)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int, int](2000, 1)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("DefaultConcurrency", func(t *testing.T) {
		p, _ := NewProcessor[int, int](10, 0)
		assert.GreaterOrEqual(t, p.Concurrency(), 1)
	})
}

func TestProcessor_CalculateBatches(t *testing.T) {
	p, _ := NewProcessor[int, int](10, 1)
	batches := p.CalculateBatches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Empty(t, p.CalculateBatches(0))
	assert.Equal(t, 10, p.BatchSize())
}

func TestProgress(t *testing.T) {
	p := NewProgress(4, 2)
	assert.Zero(t, p.PercentComplete())
	assert.False(t, p.IsComplete())
	assert.Zero(t, p.EstimatedTimeRemaining())

	p.addItem(false)
	p.addItem(true)
	p.finishBatch()
	snap := p.Snapshot()
	assert.Equal(t, 2, snap.Processed)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 1, snap.BatchesDone)
	assert.InDelta(t, 50, snap.PercentComplete, 1e-9)

	p.addItem(false)
	p.addItem(false)
	assert.True(t, p.IsComplete())
	assert.InDelta(t, 100, p.PercentComplete(), 1e-9)
}

// home returns a minimal valid scenario.
func home(area float64) scenario.Record {
	return scenario.Record{
		"floors": []any{map[string]any{"name": "Ground", "area": area, "height": 2.4}},
		"fabric": map[string]any{"elements": []any{
			map[string]any{"id": 1.0, "type": "Wall", "area": 70.0, "uvalue": 0.4},
			map[string]any{"id": 2.0, "type": "Roof", "area": area, "uvalue": 0.2},
		}},
		"heating_systems": []any{map[string]any{
			"id": 1.0, "fuel": "Mains Gas", "provides": "heating_and_water",
			"main_space_heating_system": "mainHS1", "efficiency": 0.85,
		}},
	}
}

type countingObserver struct {
	mu        sync.Mutex
	scenarios int
	failures  int
	batches   []int
}

func (o *countingObserver) ObserveScenario(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scenarios++
	if err != nil {
		o.failures++
	}
}

func (o *countingObserver) ObserveBatch(size int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.batches = append(o.batches, size)
}

func TestRunner_Run(t *testing.T) {
	jobs := []Job{
		{Name: "small", Record: home(40)},
		{Name: "medium", Record: home(80)},
		{Name: "broken", Record: scenario.Record{"region": "somewhere"}},
		{Name: "large", Record: home(150)},
		{Name: "flat", Record: home(55)},
	}

	obs := &countingObserver{}
	var snapshots int32
	r, err := NewRunner(engine.New(), 2, 2,
		WithObserver(obs),
		WithProgress(func(ProgressSnapshot) { atomic.AddInt32(&snapshots, 1) }),
	)
	require.NoError(t, err)

	var outcomes []Outcome
	summary, err := r.Run(context.Background(), jobs, func(_ context.Context, batch []Outcome) error {
		outcomes = append(outcomes, batch...)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Scenarios)
	assert.Equal(t, 1, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, outcomes, 5)
	for i, o := range outcomes {
		assert.Equal(t, jobs[i].Name, o.Name)
	}
	assert.ErrorIs(t, outcomes[2].Err, result.ErrValidation)
	assert.Greater(t, outcomes[3].Record.Float("SAP", "rating"), 0.0)

	assert.Equal(t, 5, obs.scenarios)
	assert.Equal(t, 1, obs.failures)
	assert.Equal(t, []int{2, 2, 1}, obs.batches)
	assert.Equal(t, int32(5), atomic.LoadInt32(&snapshots))
}

func TestRunner_InvalidBatchSize(t *testing.T) {
	_, err := NewRunner(engine.New(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidBatchSize)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestLoadJobs(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "b-house.json"), home(60))
	writeJSON(t, filepath.Join(dir, "a-project.json"), map[string]any{
		"master":    map[string]any(home(60)),
		"scenario1": map[string]any(home(65)),
	})
	writeJSON(t, filepath.Join(dir, "_index.json"), []any{})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	paths, err := ExpandPaths([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a-project.json"),
		filepath.Join(dir, "b-house.json"),
	}, paths)

	jobs, err := LoadJobs(paths)
	require.NoError(t, err)
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name)
	}
	assert.Equal(t, []string{"a-project/master", "a-project/scenario1", "b-house"}, names)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}

func TestOutputStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store, err := NewOutputStore(dir)
	require.NoError(t, err)

	r, err := NewRunner(engine.New(), 10, 2)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), []Job{
		{Name: "project/master", Record: home(70)},
		{Name: "broken", Record: scenario.Record{"region": "somewhere"}},
	}, store.Sink())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	data, err := os.ReadFile(filepath.Join(dir, "project_master.json"))
	require.NoError(t, err)
	rec, err := scenario.Decode(data)
	require.NoError(t, err)
	assert.Greater(t, rec.Float("TFA"), 0.0)

	var index []IndexEntry
	data, err = os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &index))
	require.Len(t, index, 2)
	assert.Equal(t, "broken", index[0].Name)
	assert.NotEmpty(t, index[0].Error)
	assert.Equal(t, "project_master.json", index[1].File)
	assert.Empty(t, index[1].Error)

	_, err = NewOutputStore("")
	assert.ErrorIs(t, err, ErrEmptyDirectory)
}
