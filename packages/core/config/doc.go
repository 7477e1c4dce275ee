// Package config handles configuration loading and management for fetchclient.
//
// It provides functionality for:
//   - Loading configuration from JSON (.fetchclient.json) or YAML (.fetchclient.yml) files
//   - Default configuration values
//   - Merging file values with command-line overrides
//   - Translating the configuration into client options
package config
