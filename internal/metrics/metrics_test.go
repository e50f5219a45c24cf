package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Observe(t *testing.T) {
	r, err := NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)

	r.ObserveScenario(3*time.Millisecond, nil)
	r.ObserveScenario(4*time.Millisecond, nil)
	r.ObserveScenario(time.Millisecond, errors.New("invalid"))
	r.ObserveBatch(3, 10*time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(r.Scenarios.WithLabelValues(StatusOK)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Scenarios.WithLabelValues(StatusFailed)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(r.Batches), 1e-9)
	assert.Greater(t, testutil.ToFloat64(r.LastRun), 0.0)
}

func TestRecorder_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	second.ObserveBatch(1, time.Millisecond)
	assert.InDelta(t, 1, testutil.ToFloat64(first.Batches), 1e-9)
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveScenario(time.Millisecond, nil)
		r.ObserveBatch(1, time.Millisecond)
	})
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r, err := NewRecorder(nil)
	require.NoError(t, err)
	r.ObserveScenario(time.Millisecond, nil)
	r.ObserveBatch(1, time.Millisecond)

	path := filepath.Join(t.TempDir(), "homeenergy.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `homeenergy_scenarios_total{status="ok"} 1`)
	assert.Contains(t, string(data), "homeenergy_batch_duration_seconds_bucket")

	assert.Error(t, r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
