// Package config provides configuration loading and validation for the
// object cropping pipeline. It handles loading configuration from YAML files
// and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/object-crop-tools/internal/imaging"
	"github.com/ironsheep/object-crop-tools/internal/segmentation"
)

// ValidationError reports a missing or invalid configuration parameter. It is
// fatal: a run refuses to touch any image under an invalid configuration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Config represents the pipeline configuration loaded from YAML.
type Config struct {
	// Segmentation parameters
	Segmentation struct {
		// MaxDistance is the connectivity radius in pixel units: two pixels
		// at most this far apart belong to the same object.
		MaxDistance float64 `yaml:"maxDistance"`

		// MinPixels is the minimum pixel count for a group to be kept.
		MinPixels int `yaml:"minPixels"`

		// MinLength keeps undersized groups whose estimated length reaches
		// this value. Set to null to disable length-based retention.
		MinLength *float64 `yaml:"minLength"`

		// LengthStrategy selects the length estimator: bbox, pca, or skeleton.
		LengthStrategy string `yaml:"lengthStrategy"`

		// ChunkSize is the number of points scanned between progress reports.
		// Zero disables chunked reporting. Purely cosmetic; results do not
		// depend on it.
		ChunkSize int `yaml:"chunkSize"`
	} `yaml:"segmentation"`

	// Input parameters
	Input struct {
		// Background is the sentinel color of the background-removed raster,
		// as "#rrggbb", or "auto" to detect the most frequent color.
		Background string `yaml:"background"`

		// RemovedSuffix is the filename-stem suffix that marks a
		// background-removed raster and links it to its original.
		RemovedSuffix string `yaml:"removedSuffix"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// Padding is the pixel margin added around each tight box before
		// cropping, clamped to the image boundary.
		Padding int `yaml:"padding"`

		// Cropping controls whether crop files are written at all; when
		// false the run is segmentation-only and emits metadata alone.
		Cropping bool `yaml:"cropping"`

		// CombinedMetadata additionally merges all object records of one
		// image into a single file sorted by object id.
		CombinedMetadata bool `yaml:"combinedMetadata"`

		// Directory receives all output files. Empty means next to the
		// input image.
		Directory string `yaml:"directory"`
	} `yaml:"output"`

	// Batch parameters
	Batch struct {
		// Workers is the number of images processed in parallel. Zero means
		// one worker per CPU core.
		Workers int `yaml:"workers"`
	} `yaml:"batch"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Segmentation.MaxDistance = 4.0
	cfg.Segmentation.MinPixels = 1000
	defaultMinLength := 200.0
	cfg.Segmentation.MinLength = &defaultMinLength
	cfg.Segmentation.LengthStrategy = "bbox"
	cfg.Segmentation.ChunkSize = 50000

	cfg.Input.Background = "#ffffff"
	cfg.Input.RemovedSuffix = "_nobg"

	cfg.Output.Padding = 35
	cfg.Output.Cropping = true
	cfg.Output.CombinedMetadata = true

	cfg.Batch.Workers = runtime.NumCPU()

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration. The result is validated.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

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
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
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

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// Validate checks every parameter and returns a *ValidationError naming the
// first offending field.
func (c *Config) Validate() error {
	if c.Segmentation.MaxDistance <= 0 {
		return &ValidationError{
			Field:  "segmentation.maxDistance",
			Reason: fmt.Sprintf("must be positive, got %v", c.Segmentation.MaxDistance),
		}
	}
	if c.Segmentation.MinPixels < 1 {
		return &ValidationError{
			Field:  "segmentation.minPixels",
			Reason: fmt.Sprintf("must be at least 1, got %d", c.Segmentation.MinPixels),
		}
	}
	if ml := c.Segmentation.MinLength; ml != nil && *ml <= 0 {
		return &ValidationError{
			Field:  "segmentation.minLength",
			Reason: fmt.Sprintf("must be positive or null, got %v", *ml),
		}
	}
	if _, err := segmentation.LengthStrategy(c.Segmentation.LengthStrategy); err != nil {
		return &ValidationError{Field: "segmentation.lengthStrategy", Reason: err.Error()}
	}
	if c.Segmentation.ChunkSize < 0 {
		return &ValidationError{
			Field:  "segmentation.chunkSize",
			Reason: fmt.Sprintf("must not be negative, got %d", c.Segmentation.ChunkSize),
		}
	}

	if c.Input.Background != imaging.AutoBackground {
		if _, err := imaging.ParseBackground(c.Input.Background); err != nil {
			return &ValidationError{Field: "input.background", Reason: err.Error()}
		}
	}
	if c.Input.RemovedSuffix == "" {
		return &ValidationError{
			Field:  "input.removedSuffix",
			Reason: "must not be empty; originals are found by stripping it",
		}
	}

	if c.Output.Padding < 0 {
		return &ValidationError{
			Field:  "output.padding",
			Reason: fmt.Sprintf("must not be negative, got %d", c.Output.Padding),
		}
	}

	if c.Batch.Workers < 0 {
		return &ValidationError{
			Field:  "batch.workers",
			Reason: fmt.Sprintf("must not be negative, got %d", c.Batch.Workers),
		}
	}

	return nil
}

// LengthFunc resolves the configured length strategy. Call after Validate.
func (c *Config) LengthFunc() segmentation.LengthFunc {
	fn, err := segmentation.LengthStrategy(c.Segmentation.LengthStrategy)
	if err != nil {
		fn = segmentation.BBoxLength
	}
	return fn
}

// WorkerCount resolves the effective batch parallelism.
func (c *Config) WorkerCount() int {
	if c.Batch.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Batch.Workers
}
