// Package config handles depthmesh configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Config errors.
var (
	ErrMissingInput   = errors.New("missing input path")
	ErrRawDimensions  = errors.New("raw depth input needs width and height")
	ErrDepthFormat    = errors.New("unknown depth format")
	ErrInvalidWorkers = errors.New("workers must be at least 1")
)

// Depth input formats.
const (
	DepthAuto  = "auto"
	DepthRaw   = "raw"
	DepthImage = "image"
)

// Config holds all build settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Build   BuildConfig   `yaml:"build"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig describes where the depth map and color image come from.
type InputConfig struct {
	Depth       string  `yaml:"depth"`        // Depth map path
	Color       string  `yaml:"color"`        // Color image path
	DepthFormat string  `yaml:"depth_format"` // auto, raw or image
	Width       int     `yaml:"width"`        // Raw depth width
	Height      int     `yaml:"height"`       // Raw depth height
	InvertDepth bool    `yaml:"invert_depth"` // Image depth: white is near
	DepthScale  float32 `yaml:"depth_scale"`  // Multiplier applied after loading
}

// OutputConfig holds mesh and preview destinations.
type OutputConfig struct {
	Path         string `yaml:"path"`
	Format       string `yaml:"format"`        // ply, obj, stl, json; empty = from extension
	Preview      string `yaml:"preview"`       // Optional culling preview (WebP)
	DepthPreview string `yaml:"depth_preview"` // Optional grayscale depth preview (WebP)
}

// BuildConfig holds mesh builder settings.
type BuildConfig struct {
	Workers  int  `yaml:"workers"`
	Validate bool `yaml:"validate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			DepthFormat: DepthAuto,
			DepthScale:  1.0,
		},
		Output: OutputConfig{
			Path: "mesh.ply",
		},
		Build: BuildConfig{
			Workers:  1,
			Validate: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// ResolvedDepthFormat resolves "auto" from the depth file extension.
func (c *InputConfig) ResolvedDepthFormat() string {
	if c.DepthFormat != "" && c.DepthFormat != DepthAuto {
		return c.DepthFormat
	}
	switch strings.ToLower(filepath.Ext(c.Depth)) {
	case ".bin", ".raw", ".f32":
		return DepthRaw
	default:
		return DepthImage
	}
}

// Validate checks that the config describes a runnable build.
func (c *Config) Validate() error {
	if c.Input.Depth == "" {
		return fmt.Errorf("%w: depth", ErrMissingInput)
	}
	if c.Input.Color == "" {
		return fmt.Errorf("%w: color", ErrMissingInput)
	}

	switch c.Input.ResolvedDepthFormat() {
	case DepthRaw:
		if c.Input.Width <= 0 || c.Input.Height <= 0 {
			return fmt.Errorf("%w: got %dx%d", ErrRawDimensions, c.Input.Width, c.Input.Height)
		}
	case DepthImage:
	default:
		return fmt.Errorf("%w: %q", ErrDepthFormat, c.Input.DepthFormat)
	}

	if c.Build.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Build.Workers)
	}
	return nil
}
