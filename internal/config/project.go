package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/carboncoop/homeenergy/internal/logging"
)

// ResolveProjectDir determines the project-local .homeenergy directory.
// It checks (in order):
//  1. flagValue
//  2. HOMEENERGY_PROJECT_DIR
//  3. the nearest .homeenergy directory at or above startDir, other than
//     the global configuration directory
//
// Returns an absolute path, or "" if no project was found. The directory is
// not created.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}
	if startDir == "" {
		return ""
	}
	return findProjectDir(ctx, startDir)
}

func findProjectDir(ctx context.Context, startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("start_dir", startDir).
			Msg("failed to resolve start directory for project discovery")
		return ""
	}

	global, _ := Dir()
	if global != "" {
		global, _ = filepath.Abs(global)
	}

	for {
		candidate := filepath.Join(dir, configDirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() && candidate != global {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadWithProject loads the global config file at path, shallow-merges the
// project config found in projectDir on top of it and applies environment
// overrides. A project config that fails to merge is logged and ignored.
func LoadWithProject(ctx context.Context, path, projectDir string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	defer cfg.ApplyEnv()

	if projectDir == "" {
		return cfg, nil
	}
	overlayPath := filepath.Join(projectDir, configFileName)
	if _, statErr := os.Stat(overlayPath); errors.Is(statErr, os.ErrNotExist) {
		return cfg, nil
	}

	merged := *cfg
	if err := ShallowMergeYAML(&merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global config")
		return cfg, nil
	}
	*cfg = merged
	return cfg, nil
}

// ProjectConfigPath returns the config file inside a project directory.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, configFileName)
}

// toAbsProjectDir makes dir absolute and appends ".homeenergy" unless it is
// already the project directory itself.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}
	if filepath.Base(abs) == configDirName {
		return abs
	}
	return filepath.Join(abs, configDirName)
}
