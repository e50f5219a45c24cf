package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	t.Setenv("HOMEENERGY_HOME", t.TempDir())
	t.Setenv("HOMEENERGY_CONFIG", "")
	t.Setenv("HOMEENERGY_PROJECT_DIR", t.TempDir())
	t.Setenv("HOMEENERGY_LOG_LEVEL", "error")

	t.Run("flags", func(t *testing.T) {
		assert.Equal(t, 0, run([]string{"flags", "legacy"}))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, 1, run([]string{"run", filepath.Join(t.TempDir(), "missing.json")}))
	})

	t.Run("unknown command", func(t *testing.T) {
		assert.Equal(t, 1, run([]string{"frobnicate"}))
	})
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, version)
}
