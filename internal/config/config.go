// Package config loads and validates the archviz configuration: defaults,
// then the YAML file, then ARCHVIZ_* environment overrides. Invalid values
// fail before the pipeline starts and are never silently corrected.
package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"archviz/internal/apperr"
	"archviz/internal/diagram"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ARCHVIZ_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// ARCHVIZ_OUTPUT_DIR -> output_dir, etc.
	if err := k.Load(env.Provider("ARCHVIZ_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ARCHVIZ_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// allTypeNames returns the names of the closed diagram type set.
func allTypeNames() []string {
	types := diagram.AllTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}

// Validate checks that the configuration contains valid values. Failures
// are reported as *apperr.ConfigurationError.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.MaxDepth, validation.Min(0)),
		validation.Field(&c.MaxConcurrency, validation.Min(0)),
		validation.Field(&c.MaxFileSize, validation.Min(int64(0))),
	)
	if err != nil {
		return &apperr.ConfigurationError{Field: "config", Detail: err.Error()}
	}

	for _, t := range c.Types {
		if !diagram.ValidType(t) {
			return &apperr.ConfigurationError{
				Field:  "types",
				Detail: fmt.Sprintf("unknown diagram type %q (valid: %s)", t, strings.Join(allTypeNames(), ", ")),
			}
		}
	}

	validLayers := map[string]bool{"presentation": true, "business": true, "data": true}
	for _, rule := range c.Layers {
		if !validLayers[rule.Layer] {
			return &apperr.ConfigurationError{
				Field:  "layers",
				Detail: fmt.Sprintf("unknown layer %q (valid: presentation, business, data)", rule.Layer),
			}
		}
		if len(rule.Keywords) == 0 {
			return &apperr.ConfigurationError{
				Field:  "layers",
				Detail: fmt.Sprintf("layer %q has no keywords", rule.Layer),
			}
		}
	}

	return nil
}
