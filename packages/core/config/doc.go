// Package config handles configuration loading and management for suiterun.
//
// It provides functionality for:
//   - Loading configuration from .suiterun.config.json, suiterun.config.json or .suiterunrc
//   - Default configuration values
//   - Merging file values with command line overrides
package config
