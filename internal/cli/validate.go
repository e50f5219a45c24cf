package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
	"github.com/carboncoop/homeenergy/internal/schema"
)

// ErrInvalidScenario is returned by validate when any scenario fails the
// input schema.
var ErrInvalidScenario = errors.New("scenario file is invalid")

// newValidateCmd creates the validate command, which checks every scenario
// of a file against the input schema without calculating it.
func newValidateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a scenario file against the input schema",
		Example: `  # Validate a project file
  homeenergy validate project.json`,
		Args: cobra.ExactArgs(1),
		RunE: s.wrap(func(cmd *cobra.Command, args []string) error {
			return s.executeValidate(cmd, args[0])
		}),
	}
}

func (s *session) executeValidate(cmd *cobra.Command, path string) error {
	project, err := scenario.LoadProject(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, name := range project.Names {
		err := schema.Validate(project.Scenarios[name])
		if err == nil {
			_, _ = fmt.Fprintf(out, "%s: ok\n", name)
			continue
		}

		invalid++
		var ve *result.ValidationError
		if !errors.As(err, &ve) {
			_, _ = fmt.Fprintf(out, "%s: %v\n", name, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %d problem(s)\n", name, len(ve.Issues))
		for _, issue := range ve.Issues {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", issue.Path, issue.Message)
		}
	}

	s.logger.Debug().Ctx(cmd.Context()).
		Str("file", path).
		Int("scenarios", len(project.Names)).
		Int("invalid", invalid).
		Msg("validation finished")

	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d scenarios", ErrInvalidScenario, invalid, len(project.Names))
	}
	return nil
}
