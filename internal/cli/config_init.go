package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carboncoop/homeenergy/internal/config"
)

// newConfigInitCmd creates the config init command. Inside a project (a
// directory tree with a .homeenergy directory, or --project-dir) it writes
// the project config; otherwise, or with --global, the global config.
func newConfigInitCmd(s *session) *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates $PROJECT/.homeenergy/config.yaml, whose sections
replace those of the global configuration. Use --global to write
~/.homeenergy/config.yaml (or the --config path) even inside a project.`,
		Example: `  # Create global configuration
  homeenergy config init --global

  # Create configuration for the project in the current directory
  homeenergy config init --project-dir .

  # Overwrite an existing file
  homeenergy config init --force`,
		Annotations: map[string]string{annotationLenientConfig: "true"},
		RunE: s.wrap(func(cmd *cobra.Command, _ []string) error {
			path := s.cfg.ConfigPath()
			if s.projectDir != "" && !global {
				path = config.ProjectConfigPath(s.projectDir)
			}
			return initConfig(cmd, path, force)
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "write the global configuration even inside a project")
	return cmd
}

// initConfig writes the default configuration to path.
func initConfig(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.New()
	cfg.SetConfigPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)
	return nil
}

// newConfigShowCmd creates the config show command, which prints the
// effective configuration after the project overlay and environment
// overrides.
func newConfigShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: s.wrap(func(cmd *cobra.Command, _ []string) error {
			data, err := s.cfg.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "# config: %s\n", s.cfg.ConfigPath())
			if s.projectDir != "" {
				_, _ = fmt.Fprintf(out, "# project: %s\n", config.ProjectConfigPath(s.projectDir))
			}
			_, err = out.Write(data)
			return err
		}),
	}
}
