// Package config provides configuration loading and management for the
// dataset tools. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"librarysquare/internal/imageio"
	"librarysquare/pkg/grid"
	"librarysquare/pkg/route"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Grid labeling parameters
	Grid struct {
		// Geometry is the grid size, cell step, slab scale and heading
		Geometry grid.Geometry `yaml:"geometry"`

		// AutoMode assigns images in scan order without user input.
		// Only use it when the capture run is known to be complete.
		AutoMode bool `yaml:"autoMode"`

		// InputDir holds the images to label, relative to the dataset root
		InputDir string `yaml:"inputDir"`

		// OutputDir receives labeled images and the manifest, relative to
		// the dataset root
		OutputDir string `yaml:"outputDir"`

		// JPEGQuality is used for the stored cell images
		JPEGQuality int `yaml:"jpegQuality"`
	} `yaml:"grid"`

	// Horizon extraction parameters
	Horizon struct {
		// Workers is how many masks are processed at once
		Workers int `yaml:"workers"`
	} `yaml:"horizon"`

	// Mask clean-up parameters
	Mask struct {
		// Binarize forces fixed masks to two levels
		Binarize bool `yaml:"binarize"`
	} `yaml:"mask"`

	// Video/trajectory synchronisation parameters
	Sync struct {
		// Video is the recorded route video
		Video string `yaml:"video"`

		// RouteCSV is the raw time,x,y trajectory
		RouteCSV string `yaml:"routeCsv"`

		// OffsetMs shifts every trajectory time before seeking
		OffsetMs float64 `yaml:"offsetMs"`

		// Bounds maps normalised trajectory coordinates to pixels
		Bounds route.Bounds `yaml:"bounds"`
	} `yaml:"sync"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.Geometry = grid.DefaultGeometry()
	cfg.Grid.AutoMode = true
	cfg.Grid.InputDir = "unwrapped"
	cfg.Grid.OutputDir = "labeled"
	cfg.Grid.JPEGQuality = imageio.DefaultJPEGQuality

	cfg.Horizon.Workers = runtime.NumCPU()

	cfg.Mask.Binarize = true

	cfg.Sync.Bounds = route.DefaultBounds()

	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the values the tools cannot run without
func (c *Config) Validate() error {
	if err := c.Grid.Geometry.Validate(); err != nil {
		return err
	}
	if c.Grid.InputDir == "" || c.Grid.OutputDir == "" {
		return fmt.Errorf("grid input and output directories must be set")
	}
	if c.Grid.JPEGQuality < 1 || c.Grid.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d outside 1..100", c.Grid.JPEGQuality)
	}
	return nil
}

// Geometry returns the validated grid geometry
func (c *Config) Geometry() (grid.Geometry, error) {
	if err := c.Grid.Geometry.Validate(); err != nil {
		return grid.Geometry{}, err
	}
	return c.Grid.Geometry, nil
}

// SyncOffset returns the trajectory time offset
func (c *Config) SyncOffset() time.Duration {
	return time.Duration(c.Sync.OffsetMs * float64(time.Millisecond))
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
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

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile writes the default configuration to configPath.
// An existing file is left untouched and reported as os.ErrExist.
func CreateDefaultConfigFile(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s: %w", configPath, os.ErrExist)
	}
	return SaveConfig(DefaultConfig(), configPath)
}
