package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carboncoop/homeenergy/internal/config"
	"github.com/carboncoop/homeenergy/internal/engine"
	"github.com/carboncoop/homeenergy/internal/report"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

// ErrScenariosFailed is returned when at least one scenario stored an error.
var ErrScenariosFailed = errors.New("scenario calculation failed")

type runFlags struct {
	output           string
	scenario         string
	checkIdempotence bool
}

// newRunCmd creates the run command, which calculates every scenario of one
// file and prints a summary or the calculated records.
func newRunCmd(s *session) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Calculate the scenarios in a file",
		Long: `Calculates a scenario file. The file holds either one scenario record or a
project: an object of scenarios keyed by name with a "master" entry.

Table output shows a summary per scenario; JSON output writes the calculated
document in the shape it was read.`,
		Example: `  # Summarise a single dwelling
  homeenergy run house.json

  # Write the calculated master scenario as JSON
  homeenergy run project.json --scenario master --output json > master.json

  # Fail if a second calculation would change any output
  homeenergy run house.json --check-idempotence`,
		Args: cobra.ExactArgs(1),
		RunE: s.wrap(func(cmd *cobra.Command, args []string) error {
			return s.executeRun(cmd, args[0], flags)
		}),
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table or json (default from config)")
	cmd.Flags().StringVar(&flags.scenario, "scenario", "", "calculate only this scenario of a project file")
	cmd.Flags().BoolVar(&flags.checkIdempotence, "check-idempotence", false,
		"recalculate each result and fail if any output changes")
	return cmd
}

// newEngine builds an engine from the engine section of the configuration.
func (s *session) newEngine() (*engine.Engine, error) {
	v, err := s.cfg.BehaviourVersion()
	if err != nil {
		return nil, err
	}
	return engine.New(
		engine.WithDefaultVersion(v),
		engine.WithFEE(s.cfg.Engine.ComputeFEE),
	), nil
}

func (s *session) executeRun(cmd *cobra.Command, path string, flags runFlags) error {
	ctx := cmd.Context()

	format := strings.ToLower(flags.output)
	if format == "" {
		format = strings.ToLower(s.cfg.Output.Format)
	}
	if format != config.FormatTable && format != config.FormatJSON {
		return fmt.Errorf("unsupported output format %q (use %q or %q)", flags.output, config.FormatTable, config.FormatJSON)
	}

	project, err := scenario.LoadProject(path)
	if err != nil {
		return err
	}
	if flags.scenario != "" {
		rec, ok := project.Scenarios[flags.scenario]
		if !ok {
			return fmt.Errorf("scenario %q not found in %s (have %s)",
				flags.scenario, path, strings.Join(project.Names, ", "))
		}
		project.Names = []string{flags.scenario}
		project.Scenarios = map[string]scenario.Record{flags.scenario: rec}
	}

	e, err := s.newEngine()
	if err != nil {
		return err
	}

	checkIdempotence := flags.checkIdempotence || s.cfg.Engine.CheckIdempotence
	summaries := make([]report.Summary, 0, len(project.Names))
	failed := 0
	for _, name := range project.Names {
		rec := project.Scenarios[name]
		if checkIdempotence {
			if err := e.CheckIdempotent(ctx, rec); err != nil {
				return fmt.Errorf("scenario %s: %w", name, err)
			}
		}

		rec = e.Run(ctx, rec)
		project.Scenarios[name] = rec
		runErr := engine.Err(rec)
		if runErr != nil {
			failed++
		}
		summaries = append(summaries, report.FromRecord(name, rec, runErr))
	}

	out := cmd.OutOrStdout()
	if format == config.FormatJSON {
		data, encErr := scenario.Encode(project.Document())
		if encErr != nil {
			return encErr
		}
		if _, err := fmt.Fprintln(out, string(data)); err != nil {
			return err
		}
	} else {
		if err := report.Render(out, summaries, report.Options{
			Styled:    isWriterTerminal(out),
			Precision: s.cfg.Output.Precision,
		}); err != nil {
			return err
		}
	}

	s.logger.Info().Ctx(ctx).
		Str("file", path).
		Int("scenarios", len(summaries)).
		Int("failed", failed).
		Msg("run finished")

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d scenarios", ErrScenariosFailed, failed, len(summaries))
	}
	return nil
}
