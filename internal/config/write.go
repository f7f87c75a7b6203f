// Package config loads the writing-parameter configuration consumed by
// the shape compiler CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// maxConfigFileSize bounds config reads; parameter files are tiny.
const maxConfigFileSize = 1 << 20

// WriteConfig holds the default writing parameters applied to shapes that
// do not carry their own. All fields are pointers so a partial JSON file
// only overrides what it names; nil fields keep the built-in defaults.
type WriteConfig struct {
	// Sweep kinematics (µm/s, µm/s²)
	Velocity     *float64 `json:"velocity,omitempty"`
	Acceleration *float64 `json:"acceleration,omitempty"`

	// Per-move rates (µm/s); at most one may be set
	FeedRate  *float64 `json:"feed_rate,omitempty"`
	ExtraRate *float64 `json:"extra_rate,omitempty"`

	// Hatch fill params (µm)
	HatchSize   *float64 `json:"hatch_size,omitempty"`
	LayerHeight *float64 `json:"layer_height,omitempty"`

	// Vertical probe range (µm)
	ProbeZMin *float64 `json:"probe_z_min,omitempty"`
	ProbeZMax *float64 `json:"probe_z_max,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }

// DefaultWriteConfig returns the built-in writing parameters of the
// instrument: 200 µm/s sweeps at 1000 µm/s², 0.5 µm hatch, 0.75 µm
// layers.
func DefaultWriteConfig() *WriteConfig {
	return &WriteConfig{
		Velocity:     ptrFloat64(200),
		Acceleration: ptrFloat64(1000),
		FeedRate:     ptrFloat64(2000),
		HatchSize:    ptrFloat64(0.5),
		LayerHeight:  ptrFloat64(0.75),
		ProbeZMin:    ptrFloat64(-5),
		ProbeZMax:    ptrFloat64(25),
	}
}

// LoadWriteConfig loads a WriteConfig from a JSON file and merges it over
// the built-in defaults. Fields omitted from the JSON file retain their
// default values, so partial configs are safe.
func LoadWriteConfig(path string) (*WriteConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes", info.Size())
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	loaded := &WriteConfig{}
	if err := json.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", cleanPath, err)
	}

	cfg := DefaultWriteConfig()
	cfg.Merge(loaded)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Merge overlays other onto c: fields set in other win.
func (c *WriteConfig) Merge(other *WriteConfig) {
	if other.Velocity != nil {
		c.Velocity = other.Velocity
	}
	if other.Acceleration != nil {
		c.Acceleration = other.Acceleration
	}
	if other.FeedRate != nil {
		c.FeedRate = other.FeedRate
	}
	if other.ExtraRate != nil {
		c.ExtraRate = other.ExtraRate
	}
	if other.HatchSize != nil {
		c.HatchSize = other.HatchSize
	}
	if other.LayerHeight != nil {
		c.LayerHeight = other.LayerHeight
	}
	if other.ProbeZMin != nil {
		c.ProbeZMin = other.ProbeZMin
	}
	if other.ProbeZMax != nil {
		c.ProbeZMax = other.ProbeZMax
	}
}

// Validate checks value ranges and the feed/extra exclusivity rule.
func (c *WriteConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"velocity", c.Velocity},
		{"acceleration", c.Acceleration},
		{"feed_rate", c.FeedRate},
		{"extra_rate", c.ExtraRate},
		{"hatch_size", c.HatchSize},
		{"layer_height", c.LayerHeight},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", p.name, *p.v)
		}
	}
	if c.FeedRate != nil && c.ExtraRate != nil {
		return fmt.Errorf("feed_rate and extra_rate are mutually exclusive")
	}
	if c.ProbeZMin != nil && c.ProbeZMax != nil && *c.ProbeZMax < *c.ProbeZMin {
		return fmt.Errorf("probe_z_max (%g) below probe_z_min (%g)", *c.ProbeZMax, *c.ProbeZMin)
	}
	return nil
}
