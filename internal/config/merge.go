package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyLogging = "logging"
	keyEngine  = "engine"
	keyBatch   = "batch"
	keyOutput  = "output"
	keyMetrics = "metrics"
	keyTracing = "tracing"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config sections.
// Other keys are ignored during merge.
//
//nolint:gochecknoglobals // Lookup table.
var knownTopLevelKeys = map[string]bool{
	keyLogging: true,
	keyEngine:  true,
	keyBatch:   true,
	keyOutput:  true,
	keyMetrics: true,
	keyTracing: true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the overlay replaces the whole target
// section; fields it omits take their default values, not the target's.
// Sections absent from the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = unmarshalSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// unmarshalSection decodes node into a fresh default section and stores it
// in target.
func unmarshalSection(target *Config, key string, node *yaml.Node) error {
	base := defaults()
	switch key {
	case keyLogging:
		v := base.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyEngine:
		v := base.Engine
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Engine = v
	case keyBatch:
		v := base.Batch
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Batch = v
	case keyOutput:
		v := base.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyMetrics:
		v := base.Metrics
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Metrics = v
	case keyTracing:
		v := base.Tracing
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Tracing = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
