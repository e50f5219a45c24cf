// Package config loads the homeenergy configuration file, applies the
// project overlay and environment overrides, and writes default files for
// `homeenergy config init`.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/tracing"
)

// Environment variables read by the configuration layer.
const (
	EnvConfig     = "HOMEENERGY_CONFIG"
	EnvHome       = "HOMEENERGY_HOME"
	EnvProjectDir = "HOMEENERGY_PROJECT_DIR"
	EnvLogLevel   = "HOMEENERGY_LOG_LEVEL"
	EnvLogFormat  = "HOMEENERGY_LOG_FORMAT"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const (
	configDirName  = ".homeenergy"
	configFileName = "config.yaml"

	defaultBatchSize = 100
	maxBatchSize     = 1000
	maxPrecision     = 6
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete homeenergy configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Engine  EngineConfig  `yaml:"engine"`
	Batch   BatchConfig   `yaml:"batch"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`

	configPath string
}

// EngineConfig controls how scenarios are calculated.
type EngineConfig struct {
	// DefaultBehaviourVersion is applied to scenarios that do not name one.
	DefaultBehaviourVersion string `yaml:"default_behaviour_version"`

	// CheckIdempotence recalculates every run scenario and fails on drift.
	CheckIdempotence bool `yaml:"check_idempotence"`

	// ComputeFEE enables the fabric energy efficiency pass.
	ComputeFEE bool `yaml:"compute_fee"`
}

// BatchConfig controls `homeenergy batch`.
type BatchConfig struct {
	// Concurrency bounds parallel scenarios; 0 uses every CPU.
	Concurrency int `yaml:"concurrency"`
	BatchSize   int `yaml:"batch_size"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Format    string `yaml:"format"`
	Precision int    `yaml:"precision"`
}

// MetricsConfig controls the Prometheus textfile written after a batch run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// New returns the default configuration, targeting the default config path.
func New() *Config {
	cfg := defaults()
	if path, err := DefaultPath(); err == nil {
		cfg.configPath = path
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		Logging: defaultLogging(),
		Engine: EngineConfig{
			DefaultBehaviourVersion: behaviour.LegacyTag,
			ComputeFEE:              true,
		},
		Batch:   BatchConfig{BatchSize: defaultBatchSize},
		Output:  OutputConfig{Format: FormatTable, Precision: 1},
		Tracing: TracingConfig{Exporter: tracing.ExporterStdout},
	}
}

// DefaultPath returns the config file path: $HOMEENERGY_CONFIG, otherwise
// config.yaml inside the config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Dir returns the homeenergy configuration directory: $HOMEENERGY_HOME, or
// ~/.homeenergy.
func Dir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// Load reads the config file at path on top of the defaults. An empty path
// means DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no configuration path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

// ApplyEnv applies the HOMEENERGY_LOG_* overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// BehaviourVersion parses Engine.DefaultBehaviourVersion.
func (c *Config) BehaviourVersion() (behaviour.Version, error) {
	return behaviour.ParseVersion(c.Engine.DefaultBehaviourVersion)
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := c.BehaviourVersion(); err != nil {
		return fmt.Errorf("%w: engine.default_behaviour_version: %w", ErrInvalidConfig, err)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("%w: batch.concurrency must be >= 0, got %d", ErrInvalidConfig, c.Batch.Concurrency)
	}
	if c.Batch.BatchSize < 1 || c.Batch.BatchSize > maxBatchSize {
		return fmt.Errorf("%w: batch.batch_size must be between 1 and %d, got %d",
			ErrInvalidConfig, maxBatchSize, c.Batch.BatchSize)
	}
	switch strings.ToLower(c.Output.Format) {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("%w: output.format must be %q or %q, got %q",
			ErrInvalidConfig, FormatTable, FormatJSON, c.Output.Format)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: output.precision must be between 0 and %d, got %d",
			ErrInvalidConfig, maxPrecision, c.Output.Precision)
	}
	switch strings.ToLower(c.Tracing.Exporter) {
	case "", tracing.ExporterStdout, tracing.ExporterNone:
	default:
		return fmt.Errorf("%w: tracing.exporter must be %q or %q, got %q",
			ErrInvalidConfig, tracing.ExporterStdout, tracing.ExporterNone, c.Tracing.Exporter)
	}
	return c.Logging.Validate()
}
