package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keySource     = "source"
	keyPagination = "pagination"
	keyCache      = "cache"
	keyLogging    = "logging"
	keyOutput     = "output"
	keyTUI        = "tui"
	keyMetrics    = "metrics"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keySource:     true,
	keyPagination: true,
	keyCache:      true,
	keyLogging:    true,
	keyOutput:     true,
	keyTUI:        true,
	keyMetrics:    true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target, with fields the section omits taking their defaults.
// Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	// Discover which top-level keys are present in the overlay.
	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		// Re-marshal the single section so we can unmarshal it onto the
		// strongly-typed target field.
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one section onto a copy of its default value, so
// fields omitted in the file keep their defaults while the file's values replace
// everything else in that section.
func unmarshalSection(target *Config, key string, data []byte) error {
	defaults := New()
	switch key {
	case keySource:
		return decodeInto(data, &target.Source, defaults.Source)
	case keyPagination:
		return decodeInto(data, &target.Pagination, defaults.Pagination)
	case keyCache:
		return decodeInto(data, &target.Cache, defaults.Cache)
	case keyLogging:
		return decodeInto(data, &target.Logging, defaults.Logging)
	case keyOutput:
		return decodeInto(data, &target.Output, defaults.Output)
	case keyTUI:
		return decodeInto(data, &target.TUI, defaults.TUI)
	case keyMetrics:
		return decodeInto(data, &target.Metrics, defaults.Metrics)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

func decodeInto[T any](data []byte, field *T, base T) error {
	v := base
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*field = v
	return nil
}
