package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/carboncoop/homeenergy/internal/config"
	"github.com/carboncoop/homeenergy/internal/logging"
	"github.com/carboncoop/homeenergy/internal/tracing"
)

// session is the per-invocation state built by the root command before any
// subcommand runs.
type session struct {
	cfg        *config.Config
	projectDir string
	logger     zerolog.Logger
	logResult  *logging.LogPathResult
	shutdown   tracing.ShutdownFunc
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	debug      bool
	configPath string
	projectDir string
	trace      bool
}

// NewRootCmd creates the root Cobra command for the homeenergy CLI.
// It loads configuration, sets up logging and tracing, and adds the run,
// batch, validate, flags and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		flags globalFlags
		s     = &session{logger: zerolog.Nop()}
	)

	cmd := &cobra.Command{
		Use:          "homeenergy",
		Short:        "Home energy model calculator",
		Long:         "homeenergy: calculate SAP-style energy ratings, costs and emissions for dwelling scenarios",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.start(cmd, flags)
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "",
		"config file (default $HOMEENERGY_CONFIG or ~/.homeenergy/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.projectDir, "project-dir", "",
		"directory holding the project .homeenergy/config.yaml (default: nearest parent with one)")
	cmd.PersistentFlags().BoolVar(&flags.trace, "trace", false, "export OpenTelemetry spans to stderr")

	cmd.AddCommand(
		newRunCmd(s),
		newBatchCmd(s),
		newValidateCmd(s),
		newFlagsCmd(s),
		newConfigCmd(s),
	)
	return cmd
}

const rootCmdExample = `  # Calculate one scenario file and show a summary
  homeenergy run house.json

  # Calculate only the master scenario of a project file as JSON
  homeenergy run project.json --scenario master --output json

  # Calculate every scenario in a directory, four at a time
  homeenergy batch surveys/ --concurrency 4 --out results/

  # Check a file against the input schema
  homeenergy validate house.json

  # List the behaviour flags of model version 2
  homeenergy flags 2

  # Write a default configuration file
  homeenergy config init`

// newConfigCmd creates the config command group.
func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(s), newConfigShowCmd(s))
	return cmd
}

// isWriterTerminal reports whether w is a terminal. Writers other than
// *os.File, such as buffers in tests, are never terminals.
func isWriterTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
