// Package config handles .unusedimportsrc.yml project-level configuration.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cmyui/remove-unused-imports-py/pkg/types"
)

// ProjectConfig represents the .unusedimportsrc.yml configuration file.
type ProjectConfig struct {
	Version int `yaml:"version"`

	TreatAllAsExport *bool `yaml:"treat_all_as_export"`
	StarIsUsed       *bool `yaml:"star_is_used"`
	Cascade          *bool `yaml:"cascade"`
	ScanTypeStrings  *bool `yaml:"scan_type_strings"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// Load loads project configuration from .unusedimportsrc.yml or
// .unusedimportsrc.yaml. If explicitPath is provided (from --config), that
// file is loaded instead. Returns nil (no error) if no config file is
// found and explicitPath is empty.
func Load(dir string, explicitPath string) (*ProjectConfig, error) {
	configPath := explicitPath
	if configPath == "" {
		ymlPath := filepath.Join(dir, ".unusedimportsrc.yml")
		yamlPath := filepath.Join(dir, ".unusedimportsrc.yaml")

		if _, err := os.Stat(ymlPath); err == nil {
			configPath = ymlPath
		} else if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			return nil, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", configPath, err)
	}

	cfg := &ProjectConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that the ProjectConfig values are well-formed.
func (c *ProjectConfig) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}
	return nil
}

// ApplyTo overlays the config file's overrides onto a default
// types.Config, returning the effective configuration. A nil receiver
// leaves cfg unchanged.
func (c *ProjectConfig) ApplyTo(cfg types.Config) types.Config {
	if c == nil {
		return cfg
	}
	if c.TreatAllAsExport != nil {
		cfg.TreatAllAsExport = *c.TreatAllAsExport
	}
	if c.StarIsUsed != nil {
		cfg.StarIsUsed = *c.StarIsUsed
	}
	if c.Cascade != nil {
		cfg.Cascade = *c.Cascade
	}
	if c.ScanTypeStrings != nil {
		cfg.ScanTypeStrings = *c.ScanTypeStrings
	}
	return cfg
}

// IncludeGlobs returns the configured include patterns, or the default
// when none are set.
func (c *ProjectConfig) IncludeGlobs() []string {
	if c == nil || len(c.Include) == 0 {
		return []string{"**/*.py"}
	}
	return c.Include
}

// ExcludeGlobs returns the configured exclude patterns.
func (c *ProjectConfig) ExcludeGlobs() []string {
	if c == nil {
		return nil
	}
	return c.Exclude
}
