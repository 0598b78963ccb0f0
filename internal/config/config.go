// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/woozymasta/geodesy/internal/ellipsoid"
	"github.com/woozymasta/geodesy/internal/geo"
	"github.com/woozymasta/geodesy/internal/measure"
	"github.com/woozymasta/geodesy/internal/normalize"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Ellipsoid string  `yaml:"ellipsoid,omitempty" json:"ellipsoid,omitempty"`
	Method    string  `yaml:"method,omitempty" json:"method,omitempty"`
	Fences    []Fence `yaml:"fences" json:"fences"`
	Step      float64 `yaml:"step,omitempty" json:"step,omitempty"` // meters between generated points
	Fallback  bool    `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// Fence is a named polygon. The ring comes either inline or from a GeoJSON source.
type Fence struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// polygon in any shape the normalize package accepts
	Polygon normalize.Value `yaml:"polygon,omitempty" json:"-"`

	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Source      string   `yaml:"source,omitempty" json:"-"` // file path or http(s) URL of a GeoJSON document
	Aliases     []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	Ring geo.Polygon `yaml:"-" json:"polygon"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes a YAML (or JSON) configuration document and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the global defaults and decodes inline fence polygons.
// Fences with a Source are left for the fence loader.
func (c *Config) Validate() error {
	if _, err := ellipsoid.Resolve(c.Ellipsoid); err != nil {
		return fmt.Errorf("config ellipsoid: %w", err)
	}
	if _, err := measure.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("config method: %w", err)
	}
	if c.Step < 0 {
		return fmt.Errorf("config step must not be negative, got %v", c.Step)
	}

	names := make(map[string]string)
	for i := range c.Fences {
		f := &c.Fences[i]

		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("fence %d: name is required", i)
		}

		for _, key := range append([]string{f.Name}, f.Aliases...) {
			k := strings.ToLower(key)
			if owner, ok := names[k]; ok {
				return fmt.Errorf("fence %q: name %q already used by %q", f.Name, key, owner)
			}
			names[k] = f.Name
		}

		switch {
		case !f.Polygon.IsZero() && f.Source != "":
			return fmt.Errorf("fence %q: polygon and source are mutually exclusive", f.Name)
		case !f.Polygon.IsZero():
			ring, err := f.Polygon.Polygon()
			if err != nil {
				return fmt.Errorf("fence %q: %w", f.Name, err)
			}
			f.Ring = ring
		case f.Source == "":
			return fmt.Errorf("fence %q: polygon or source is required", f.Name)
		}
	}

	return nil
}

// EllipsoidOrDefault resolves the configured ellipsoid, WGS84 when unset.
func (c *Config) EllipsoidOrDefault() ellipsoid.Ellipsoid {
	e, err := ellipsoid.Resolve(c.Ellipsoid)
	if err != nil {
		return ellipsoid.WGS84
	}
	return e
}

// MethodOrDefault resolves the configured distance method, haversine when unset.
func (c *Config) MethodOrDefault() measure.Method {
	m, err := measure.ParseMethod(c.Method)
	if err != nil {
		return measure.Haversine
	}
	return m
}

// StepOrDefault returns the configured point generation step in meters.
func (c *Config) StepOrDefault() float64 {
	if c.Step <= 0 {
		return geo.DefaultStep
	}
	return c.Step
}
