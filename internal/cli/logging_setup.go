package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carboncoop/homeenergy/internal/config"
	"github.com/carboncoop/homeenergy/internal/logging"
	"github.com/carboncoop/homeenergy/internal/tracing"
)

// annotationLenientConfig marks commands that fall back to the default
// configuration when the config files cannot be loaded.
const annotationLenientConfig = "homeenergy/lenient-config"

// start loads configuration and sets up logging and tracing for cmd.
func (s *session) start(cmd *cobra.Command, flags globalFlags) error {
	ctx := cmd.Context()

	cwd, _ := os.Getwd()
	s.projectDir = config.ResolveProjectDir(ctx, flags.projectDir, cwd)
	cfg, err := config.LoadWithProject(ctx, flags.configPath, s.projectDir)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		if cmd.Annotations[annotationLenientConfig] == "" {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring configuration: %v\n", err)
		cfg = config.New()
		if flags.configPath != "" {
			cfg.SetConfigPath(flags.configPath)
		}
	}
	s.cfg = cfg

	s.setupLogging(cmd, flags.debug)

	if flags.trace {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = tracing.ExporterStdout
	}
	shutdown, err := tracing.Setup(cmd.Context(), tracing.Config{
		Enabled:  cfg.Tracing.Enabled,
		Exporter: cfg.Tracing.Exporter,
		Writer:   cmd.ErrOrStderr(),
	}, s.logger)
	if err != nil {
		return err
	}
	s.shutdown = shutdown
	return nil
}

// setupLogging builds the logger from config, environment and --debug, and
// stores it with a fresh trace id in the command context.
func (s *session) setupLogging(cmd *cobra.Command, debug bool) {
	loggingCfg := s.cfg.Logging
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	if err := loggingCfg.EnsureLogDir(); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	s.logResult = &result
	s.logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	s.logger.Debug().Ctx(ctx).
		Str("command", cmd.CommandPath()).
		Str("config", s.cfg.ConfigPath()).
		Str("project_dir", s.projectDir).
		Msg("command started")
}

// wrap returns a RunE that always flushes tracing and closes the log file,
// including when fn fails and cobra skips the post-run hooks.
func (s *session) wrap(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if finishErr := s.finish(cmd); err == nil {
			err = finishErr
		}
		return err
	}
}

// finish flushes tracing and closes the log file. It is safe to call twice.
func (s *session) finish(cmd *cobra.Command) error {
	tracing.Shutdown(cmd.Context(), s.shutdown, s.logger)
	s.shutdown = nil
	if s.logResult != nil {
		err := s.logResult.Close()
		s.logResult = nil
		return err
	}
	return nil
}
