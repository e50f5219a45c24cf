package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "homeenergy.log")
	res := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
	t.Cleanup(func() { _ = res.Close() })

	assert.True(t, res.UsingFile)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, path, res.FilePath)
}

func TestNewLoggerWithPath_FallsBackWithoutFile(t *testing.T) {
	res := NewLoggerWithPath(Config{Output: OutputFile})
	assert.False(t, res.UsingFile)
	assert.True(t, res.FallbackUsed)
	assert.NotEmpty(t, res.FallbackReason)
	assert.NoError(t, res.Close())
}

func TestTraceIDHook(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(TraceIDHook{})

	ctx := ContextWithTraceID(context.Background(), "01TRACE")
	logger.Info().Ctx(ctx).Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "01TRACE", entry["trace_id"])
}

func TestGetOrGenerateTraceID(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "fixed")
	assert.Equal(t, "fixed", GetOrGenerateTraceID(ctx))

	id := GetOrGenerateTraceID(context.Background())
	_, err := ulid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewTraceID())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(zerolog.New(&buf), "engine")
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("stored")
	assert.Contains(t, buf.String(), `"component":"engine"`)

	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info().Msg("dropped")
		//nolint:staticcheck // nil context is handled explicitly
		FromContext(nil).Info().Msg("dropped")
	})
}
