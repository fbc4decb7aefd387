// Package config provides configuration loading and management for gridgen.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Expansion parameters
	Expansion struct {
		// Distances are the ring expansion distances in pixels
		Distances []int `yaml:"distances"`

		// MinArea drops ring components below this pixel count (0 disables)
		MinArea int `yaml:"minArea"`

		// RestrictToLimit clips rings to the constraint mask
		RestrictToLimit bool `yaml:"restrictToLimit"`
	} `yaml:"expansion"`

	// Statistics parameters
	Stats struct {
		// GridSize is the tile size for grid analysis
		GridSize int `yaml:"gridSize"`
	} `yaml:"stats"`

	// Output parameters
	Output struct {
		// Dir is the directory output grids are written to
		Dir string `yaml:"dir"`

		// SaveNPY writes every output grid as an NPY array file
		SaveNPY bool `yaml:"saveNPY"`

		// SavePNG writes every output grid as a scaled PNG image
		SavePNG bool `yaml:"savePNG"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Render parameters
	Render struct {
		// Background is the RGB background color of composites
		Background [3]uint8 `yaml:"background"`

		// Colors maps mask names to RGB colors; unnamed masks get a
		// generated palette color
		Colors map[string][3]uint8 `yaml:"colors"`
	} `yaml:"render"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default expansion parameters
	cfg.Expansion.Distances = []int{10, 30, 50}
	cfg.Expansion.MinArea = 0
	cfg.Expansion.RestrictToLimit = true

	// Set default statistics parameters
	cfg.Stats.GridSize = 100

	// Set default output parameters
	cfg.Output.Dir = "gridgen_output"
	cfg.Output.SaveNPY = true
	cfg.Output.SavePNG = true
	cfg.Output.Verbose = true

	// Set default render parameters
	cfg.Render.Background = [3]uint8{0, 0, 0}
	cfg.Render.Colors = map[string][3]uint8{}

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
