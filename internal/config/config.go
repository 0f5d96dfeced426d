// Package config loads and validates svgprep configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-svgprep/internal/fileutil"
	"github.com/alnah/go-svgprep/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// MaxWorkers caps the configurable worker count. Each worker may hold its
// own browser instance.
const MaxWorkers = 32

// Config holds all configuration for document preparation and rendering.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Fix    FixConfig    `yaml:"fix"`
	Render RenderConfig `yaml:"render"`
	Batch  BatchConfig  `yaml:"batch"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = in place)
}

// FixConfig defines geometry fixing options.
type FixConfig struct {
	Tolerance float64 `yaml:"tolerance"` // Minimum geometry delta to rewrite (0 = default 0.5)
}

// RenderConfig defines PDF rendering options.
type RenderConfig struct {
	PageWidth  float64 `yaml:"pageWidth"`  // Fallback page width in points (0 = default 1280)
	PageHeight float64 `yaml:"pageHeight"` // Fallback page height in points (0 = default 720)
}

// BatchConfig defines parallel processing options.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 = auto-size from CPU count
}

// Validate checks value ranges. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Fix.Tolerance < 0 {
		return fmt.Errorf("fix.tolerance: must not be negative, got %g", c.Fix.Tolerance)
	}
	if c.Render.PageWidth < 0 {
		return fmt.Errorf("render.pageWidth: must not be negative, got %g", c.Render.PageWidth)
	}
	if c.Render.PageHeight < 0 {
		return fmt.Errorf("render.pageHeight: must not be negative, got %g", c.Render.PageHeight)
	}
	if (c.Render.PageWidth > 0) != (c.Render.PageHeight > 0) {
		return fmt.Errorf("render: pageWidth and pageHeight must be set together")
	}
	if c.Batch.Workers < 0 || c.Batch.Workers > MaxWorkers {
		return fmt.Errorf("batch.workers: must be between 0 and %d, got %d", MaxWorkers, c.Batch.Workers)
	}
	return nil
}

// DefaultConfig returns a neutral configuration with all overrides unset.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-svgprep/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-svgprep", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
