// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Conversion modes of a job.
const (
	ModeNormalize = "normalize"
	ModeObsolete  = "obsolete"
)

// Config represents the root configuration file structure.
type Config struct {
	DefaultProjection string       `yaml:"default_projection,omitempty" json:"default_projection,omitempty"`
	Projections       []Projection `yaml:"projections,omitempty" json:"projections,omitempty"`
	Jobs              []Job        `yaml:"jobs,omitempty" json:"jobs,omitempty"`
	Precision         int          `yaml:"precision,omitempty" json:"precision,omitempty"`
	Indent            bool         `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// Projection is a custom projection definition registered at startup.
type Projection struct {
	ID         string `yaml:"id" json:"id"`                 // e.g. EPSG:2056
	Definition string `yaml:"definition" json:"definition"` // PROJ.4 string or known identifier
}

// Job describes a single batch conversion.
type Job struct {
	Name       string `yaml:"name" json:"name"`
	Mode       string `yaml:"mode" json:"mode"`
	Input      string `yaml:"input" json:"input"`
	Output     string `yaml:"output" json:"output"`
	Projection string `yaml:"projection,omitempty" json:"projection,omitempty"`
	Datum      string `yaml:"datum,omitempty" json:"datum,omitempty"`
	AllKinds   bool   `yaml:"all_kinds,omitempty" json:"all_kinds,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks required fields and job modes.
func (c *Config) Validate() error {
	for i, p := range c.Projections {
		if p.ID == "" || p.Definition == "" {
			return fmt.Errorf("projection #%d: id and definition are required", i)
		}
	}

	seen := make(map[string]bool, len(c.Jobs))
	for i, j := range c.Jobs {
		if j.Name == "" {
			return fmt.Errorf("job #%d: name is required", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("job %q: duplicate name", j.Name)
		}
		seen[j.Name] = true

		if j.Mode != ModeNormalize && j.Mode != ModeObsolete {
			return fmt.Errorf("job %q: unknown mode %q", j.Name, j.Mode)
		}
		if j.Input == "" || j.Output == "" {
			return fmt.Errorf("job %q: input and output are required", j.Name)
		}
	}

	if c.Precision < 0 {
		return fmt.Errorf("precision must not be negative")
	}

	return nil
}

// TargetProjection returns the job projection, falling back to the configured default.
func (c *Config) TargetProjection(j Job) string {
	if j.Projection != "" {
		return j.Projection
	}
	return c.DefaultProjection
}
