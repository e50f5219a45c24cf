package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/carboncoop/homeenergy/internal/logging"
)

// LoggingConfig is the logging section of the config file.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// File, when set, sends logs to that file instead of stderr.
	File   string `yaml:"file,omitempty"`
	Caller bool   `yaml:"caller,omitempty"`
}

func defaultLogging() LoggingConfig {
	return LoggingConfig{
		Level:  zerolog.LevelInfoValue,
		Format: logging.FormatConsole,
	}
}

// Validate checks the level and format names.
func (l LoggingConfig) Validate() error {
	if l.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(l.Level)); err != nil {
			return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
		}
	}
	switch strings.ToLower(l.Format) {
	case "", logging.FormatConsole, logging.FormatJSON:
		return nil
	default:
		return fmt.Errorf("%w: logging.format must be %q or %q, got %q",
			ErrInvalidConfig, logging.FormatConsole, logging.FormatJSON, l.Format)
	}
}

// ToLoggingConfig converts the section into a logging.Config.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.Config{
		Level:  l.Level,
		Format: l.Format,
		Output: logging.OutputStderr,
		Caller: l.Caller,
	}
	if l.File != "" {
		cfg.Output = logging.OutputFile
		cfg.File = l.File
	}
	return cfg
}

// EnsureLogDir creates the directory of the configured log file, if any.
func (l LoggingConfig) EnsureLogDir() error {
	if l.File == "" {
		return nil
	}
	dir := filepath.Dir(l.File)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", dir, err)
	}
	return nil
}
