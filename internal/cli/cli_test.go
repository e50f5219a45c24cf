package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carboncoop/homeenergy/internal/cli"
	"github.com/carboncoop/homeenergy/internal/config"
	"github.com/carboncoop/homeenergy/internal/engine/batch"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// setupCLITest isolates the config and project directories and silences
// logging. It returns the global config directory.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvLogFormat, "")
	t.Chdir(t.TempDir())
	return home
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testdata(t *testing.T, name string) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return path
}

func copyTestdata(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		data, err := os.ReadFile(testdata(t, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
	}
}

func TestRun_Table(t *testing.T) {
	house := testdata(t, "house.json")
	setupCLITest(t)

	out, _, err := execute(t, "run", house)
	require.NoError(t, err)
	assert.Contains(t, out, "house")
	assert.Contains(t, out, "SAP rating")
	assert.Contains(t, out, "Fabric energy efficiency")
	assert.Contains(t, out, "Net cost")
	assert.NotContains(t, out, "FAILED")
}

func TestRun_JSON(t *testing.T) {
	house := testdata(t, "house.json")
	setupCLITest(t)

	out, _, err := execute(t, "run", house, "--output", "json")
	require.NoError(t, err)

	rec, err := scenario.Decode([]byte(out))
	require.NoError(t, err)
	assert.InDelta(t, 60, rec.Float("TFA"), 1e-9)
	assert.Greater(t, rec.Float("SAP", "rating"), 0.0)
	assert.True(t, rec.Has("fabric_energy_efficiency"))
	assert.False(t, rec.Has("modelBehaviourVersion"))
}

func TestRun_ProjectScenario(t *testing.T) {
	project := testdata(t, "project.json")
	setupCLITest(t)

	out, _, err := execute(t, "run", project, "--scenario", "scenario1", "-o", "json")
	require.NoError(t, err)

	doc, err := scenario.Decode([]byte(out))
	require.NoError(t, err)
	assert.True(t, doc.Has("scenario1"))
	assert.False(t, doc.Has("master"))
	assert.Greater(t, doc.Float("scenario1", "SAP", "rating"), 0.0)

	_, _, err = execute(t, "run", project, "--scenario", "scenario9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "master, scenario1")
}

func TestRun_Project(t *testing.T) {
	project := testdata(t, "project.json")
	setupCLITest(t)

	out, _, err := execute(t, "run", project)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "master"), strings.Index(out, "scenario1"))
}

func TestRun_CheckIdempotence(t *testing.T) {
	house := testdata(t, "house.json")
	setupCLITest(t)

	_, _, err := execute(t, "run", house, "--check-idempotence")
	assert.NoError(t, err)
}

func TestRun_Failure(t *testing.T) {
	invalid := testdata(t, "invalid.json")
	setupCLITest(t)

	out, _, err := execute(t, "run", invalid)
	require.ErrorIs(t, err, cli.ErrScenariosFailed)
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "/region")
}

func TestRun_BadFormat(t *testing.T) {
	house := testdata(t, "house.json")
	setupCLITest(t)

	_, _, err := execute(t, "run", house, "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRun_ConfigDefaults(t *testing.T) {
	house := testdata(t, "house.json")
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
engine:
  default_behaviour_version: 2
  compute_fee: false
output:
  format: json
`), 0o600))

	out, _, err := execute(t, "run", house)
	require.NoError(t, err)

	rec, err := scenario.Decode([]byte(out))
	require.NoError(t, err)
	assert.Greater(t, rec.Float("SAP", "rating"), 0.0)
	assert.False(t, rec.Has("fabric_energy_efficiency"))
}

func TestRun_InvalidConfig(t *testing.T) {
	house := testdata(t, "house.json")
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("batch:\n  batch_size: 0\n"), 0o600))

	_, _, err := execute(t, "run", house)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRun_Trace(t *testing.T) {
	house := testdata(t, "house.json")
	setupCLITest(t)

	_, stderr, err := execute(t, "--trace", "run", house)
	require.NoError(t, err)
	assert.Contains(t, stderr, "engine.Run")
}

func TestBatch(t *testing.T) {
	src := t.TempDir()
	copyTestdata(t, src, "house.json", "project.json", "invalid.json")
	setupCLITest(t)

	outDir := filepath.Join(t.TempDir(), "results")
	metricsFile := filepath.Join(t.TempDir(), "homeenergy.prom")

	out, _, err := execute(t, "batch", src, "--concurrency", "2", "--batch-size", "2",
		"--out", outDir, "--metrics-file", metricsFile)
	require.ErrorIs(t, err, cli.ErrScenariosFailed)
	assert.Contains(t, out, "4 scenarios, 1 failed")
	assert.Contains(t, out, "house")
	assert.Contains(t, out, "project/scenario1")
	assert.Contains(t, out, "FAILED")

	var index []batch.IndexEntry
	data, err := os.ReadFile(filepath.Join(outDir, batch.IndexFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &index))
	assert.Len(t, index, 4)
	assert.FileExists(t, filepath.Join(outDir, "project_master.json"))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `homeenergy_scenarios_total{status="failed"} 1`)
	assert.Contains(t, string(prom), `homeenergy_scenarios_total{status="ok"} 3`)
}

func TestBatch_SortAndLimit(t *testing.T) {
	src := t.TempDir()
	copyTestdata(t, src, "house.json", "project.json")
	setupCLITest(t)

	out, _, err := execute(t, "batch", src, "--sort", "name:desc", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "3 scenarios, 0 failed")

	rows := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(rows), 4)
	assert.True(t, strings.HasPrefix(rows[2], "project/scenario1"), rows[2])
	assert.True(t, strings.HasPrefix(rows[3], "project/master"), rows[3])
	assert.NotContains(t, out, "house  ")

	_, _, err = execute(t, "batch", src, "--sort", "rooms")
	assert.Error(t, err)
}

func TestBatch_MissingPath(t *testing.T) {
	setupCLITest(t)
	_, _, err := execute(t, "batch", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	project := testdata(t, "project.json")
	invalid := testdata(t, "invalid.json")
	setupCLITest(t)

	out, _, err := execute(t, "validate", project)
	require.NoError(t, err)
	assert.Contains(t, out, "master: ok")
	assert.Contains(t, out, "scenario1: ok")

	out, _, err = execute(t, "validate", invalid)
	require.ErrorIs(t, err, cli.ErrInvalidScenario)
	assert.Contains(t, out, "/region")
}

func TestFlags(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "flags", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Model behaviour version: 2")
	assert.Contains(t, out, "skipDistributionLossForInstantaneous")

	out, _, err = execute(t, "flags", "--output", "json")
	require.NoError(t, err)
	var doc struct {
		Version any `json:"modelBehaviourVersion"`
		Flags   []struct {
			Name  string `json:"name"`
			Value bool   `json:"value"`
		} `json:"flags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "legacy", doc.Version)
	assert.NotEmpty(t, doc.Flags)

	_, _, err = execute(t, "flags", "7")
	assert.Error(t, err)
}

func TestConfigInit_Global(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	path := filepath.Join(home, "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Engine.ComputeFEE)

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigInit_Project(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()

	_, _, err := execute(t, "--project-dir", projectRoot, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(projectRoot, ".homeenergy", "config.yaml"))
}

func TestConfigInit_BrokenConfig(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o600))

	_, stderr, err := execute(t, "config", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, stderr, "ignoring configuration")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.FormatTable, cfg.Output.Format)
}

func TestConfigShow(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	projectDir := filepath.Join(projectRoot, ".homeenergy")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"),
		[]byte("batch:\n  concurrency: 7\n"), 0o600))
	t.Chdir(projectRoot)

	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# project: ")
	assert.Contains(t, out, "concurrency: 7")
	assert.Contains(t, out, "compute_fee: true")
}
