package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Origin:      "",
		Headers:     nil, // client defaults: Accept and Content-Type application/json
		Credentials: "same-origin",
		CSRFToken:   "",
		CSRFHeader:  "", // client default: X-CSRF-Token
		Timeout:     0,  // no timeout
		ValidateSSL: BoolPtr(true),
		Proxy:       "",
		Output:      "console",
		Verbose:     BoolPtr(false),
		NoColor:     BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Origin == defaults.Origin &&
		len(c.Headers) == 0 &&
		c.Credentials == defaults.Credentials &&
		c.CSRFToken == defaults.CSRFToken &&
		c.CSRFHeader == defaults.CSRFHeader &&
		c.Timeout == defaults.Timeout &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		c.Output == defaults.Output &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
