// Package config loads the YAML scenarios used by the command-line tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/abac-toolkit/pkg/abac"
	"github.com/ha1tch/abac-toolkit/pkg/cascade"
	"github.com/ha1tch/abac-toolkit/pkg/interp"
)

// Cascade modes.
const (
	ModeParameters = "parameters"
	ModeSimple     = "simple"
)

// Config is a fit and cascade scenario.
type Config struct {
	Fit       Fit     `yaml:"fit"`
	Cascade   Cascade `yaml:"cascade"`
	Verbosity int     `yaml:"verbosity"`
}

// Fit controls how curves are fitted before a cascade runs.
type Fit struct {
	Method       string  `yaml:"method"`     // one of interp.Methods
	NumPoints    int     `yaml:"num_points"` // output samples per curve
	Monotonic    bool    `yaml:"monotonic"`
	Smoothing    float64 `yaml:"smoothing"`    // 0..1
	Intermediate int     `yaml:"intermediate"` // synthetic curves per graph, 0 for none
	Refit        bool    `yaml:"refit"`        // refit curves that already carry a fit
}

// Cascade describes one cascade run.
type Cascade struct {
	System     string                   `yaml:"system"` // path to the system document
	Start      string                   `yaml:"start"`  // graph id; empty means the first graph
	Input      float64                  `yaml:"input"`
	Mode       string                   `yaml:"mode"` // "parameters" or "simple"
	Trace      bool                     `yaml:"trace"`
	Parameters []cascade.GraphParameter `yaml:"parameters"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	def := abac.DefaultFitOptions()
	if c.Fit.Method == "" {
		c.Fit.Method = string(def.Method)
	}
	if c.Fit.NumPoints == 0 {
		c.Fit.NumPoints = def.NumPoints
	}
	if c.Cascade.Mode == "" {
		c.Cascade.Mode = ModeParameters
	}
}

// Validate checks values that defaults cannot fix.
func (c *Config) Validate() error {
	if _, err := interp.ParseMethod(c.Fit.Method); err != nil {
		return fmt.Errorf("fit.method: %w", err)
	}
	if c.Fit.NumPoints < 0 {
		return fmt.Errorf("fit.num_points: must be positive, got %d", c.Fit.NumPoints)
	}
	if c.Fit.Smoothing < 0 || c.Fit.Smoothing > 1 {
		return fmt.Errorf("fit.smoothing: must be within [0, 1], got %g", c.Fit.Smoothing)
	}
	if c.Fit.Intermediate < 0 {
		return fmt.Errorf("fit.intermediate: must not be negative, got %d", c.Fit.Intermediate)
	}
	switch c.Cascade.Mode {
	case ModeParameters, ModeSimple:
	default:
		return fmt.Errorf("cascade.mode: unknown mode %q", c.Cascade.Mode)
	}
	for i, p := range c.Cascade.Parameters {
		if p.GraphID == "" {
			return fmt.Errorf("cascade.parameters[%d]: graph is required", i)
		}
		switch p.WindDirection {
		case "", abac.WindNone, abac.WindHeadwind, abac.WindTailwind:
		default:
			return fmt.Errorf("cascade.parameters[%d]: unknown wind direction %q", i, p.WindDirection)
		}
	}
	return nil
}

// FitOptions converts the fit section for abac.Manager.FitCurve.
func (c *Config) FitOptions() abac.FitOptions {
	return abac.FitOptions{
		Method:    abac.Method(c.Fit.Method),
		Monotonic: c.Fit.Monotonic,
		Smoothing: c.Fit.Smoothing,
		NumPoints: c.Fit.NumPoints,
	}
}
