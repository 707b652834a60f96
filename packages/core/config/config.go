package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the suiterun configuration
type Config struct {
	Workers    int      `json:"workers,omitempty"`
	BaselineMs int      `json:"baselineMs,omitempty"` // nominal sequential time for speedup
	Output     string   `json:"output,omitempty"`     // console, json, junit, tap
	OutputDir  string   `json:"outputDir,omitempty"`  // Directory for report files
	NoColor    *bool    `json:"noColor,omitempty"`
	Verbose    *bool    `json:"verbose,omitempty"`
	Progress   *bool    `json:"progress,omitempty"`
	Paths      []string `json:"paths,omitempty"` // default suite files or directories
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetProgress returns the progress display setting, defaulting to true
func (c *Config) GetProgress() bool {
	return getBool(c.Progress, true)
}

// Baseline returns BaselineMs as a duration
func (c *Config) Baseline() time.Duration {
	return time.Duration(c.BaselineMs) * time.Millisecond
}

// Validate rejects values the runner cannot use
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.BaselineMs < 0 {
		return fmt.Errorf("baselineMs must not be negative, got %d", c.BaselineMs)
	}
	switch c.Output {
	case "", "console", "json", "junit", "tap":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".suiterun.config.json",
	"suiterun.config.json",
	".suiterunrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Workers > 0 {
		result.Workers = other.Workers
	}
	if other.BaselineMs > 0 {
		result.BaselineMs = other.BaselineMs
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}

	// Boolean flags - only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.Progress != nil {
		result.Progress = other.Progress
	}

	if len(other.Paths) > 0 {
		result.Paths = other.Paths
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
