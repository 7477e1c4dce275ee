package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fetchclient/packages/client"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config represents the fetchclient configuration
type Config struct {
	Origin      string            `json:"origin,omitempty" yaml:"origin,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`         // Replaces the default Accept/Content-Type pair
	Credentials string            `json:"credentials,omitempty" yaml:"credentials,omitempty"` // omit, same-origin or include
	CSRFToken   string            `json:"csrfToken,omitempty" yaml:"csrfToken,omitempty"`
	CSRFHeader  string            `json:"csrfHeader,omitempty" yaml:"csrfHeader,omitempty"`
	Timeout     int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds, 0 disables
	ValidateSSL *bool             `json:"validateSSL,omitempty" yaml:"validateSSL,omitempty"`
	Proxy       string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Output      string            `json:"output,omitempty" yaml:"output,omitempty"` // console or json
	Verbose     *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor     *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
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

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".fetchclient.json",
	"fetchclient.config.json",
	".fetchclient.yml",
	".fetchclient.yaml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
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

// loadConfigFromFile loads configuration from a specific file. The format
// follows the extension; anything other than .yml/.yaml is read as JSON.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks values that cannot be checked by the decoder
func (c *Config) Validate() error {
	if _, err := client.ParseCredentials(c.Credentials); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	switch c.Output {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output)
	}
	return nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Origin != "" {
		result.Origin = other.Origin
	}
	if other.Credentials != "" {
		result.Credentials = other.Credentials
	}
	if other.CSRFToken != "" {
		result.CSRFToken = other.CSRFToken
	}
	if other.CSRFHeader != "" {
		result.CSRFHeader = other.CSRFHeader
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Output != "" {
		result.Output = other.Output
	}

	// Boolean flags - only override if explicitly set in other config
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Merge headers into a fresh map so c is left untouched
	if len(other.Headers) > 0 {
		merged := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range other.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return &result
}

// ClientOptions translates the configuration into client options. Call
// Validate first; an unparsable credentials policy falls back to same-origin.
func (c *Config) ClientOptions() []client.Option {
	credentials, _ := client.ParseCredentials(c.Credentials)

	opts := []client.Option{
		client.WithCredentials(credentials),
		client.WithTimeout(time.Duration(c.Timeout) * time.Millisecond),
		client.WithValidateSSL(c.GetValidateSSL()),
	}

	if c.Origin != "" {
		opts = append(opts, client.WithOrigin(c.Origin))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, client.WithDefaultHeaders(c.Headers))
	}
	if c.CSRFToken != "" {
		opts = append(opts, client.WithCSRFToken(c.CSRFToken))
	}
	if c.CSRFHeader != "" {
		opts = append(opts, client.WithCSRFHeader(c.CSRFHeader))
	}
	if c.Proxy != "" {
		opts = append(opts, client.WithProxy(c.Proxy))
	}

	return opts
}

// SaveConfig saves the configuration to a file as indented JSON
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
