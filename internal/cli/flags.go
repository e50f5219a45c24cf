package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/config"
)

// newFlagsCmd creates the flags command, which lists the behaviour flags a
// model version switches on.
func newFlagsCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "flags [VERSION]",
		Short: "Show the behaviour flags of a model version",
		Long: `Lists every behaviour flag with its severity and whether the given model
behaviour version enables it. VERSION is "legacy" or a version number; without
it the configured default version is shown.`,
		Example: `  homeenergy flags
  homeenergy flags 2 --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: s.wrap(func(cmd *cobra.Command, args []string) error {
			raw := s.cfg.Engine.DefaultBehaviourVersion
			if len(args) == 1 {
				raw = args[0]
			}
			v, err := behaviour.ParseVersion(raw)
			if err != nil {
				return err
			}
			return writeFlags(cmd, v, output)
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", config.FormatTable, "output format: table or json")
	return cmd
}

func writeFlags(cmd *cobra.Command, v behaviour.Version, output string) error {
	descriptions := behaviour.Describe(behaviour.ConstructFlags(v))
	out := cmd.OutOrStdout()

	switch output {
	case config.FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Version any                         `json:"modelBehaviourVersion"`
			Flags   []behaviour.FlagDescription `json:"flags"`
		}{v.RecordValue(), descriptions})
	case config.FormatTable:
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}

	_, _ = fmt.Fprintf(out, "Model behaviour version: %s\n\n", v)
	tw := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Group\tFlag\tSeverity\tEnabled")
	fmt.Fprintln(tw, "-----\t----\t--------\t-------")
	for _, d := range descriptions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", d.Group, d.Name, d.Severity, d.Value)
	}
	return tw.Flush()
}
