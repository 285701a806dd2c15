package atlas

import "strconv"

// maxDimension bounds the atlas texture size to what every backend accepts.
const maxDimension = 8192

// Config holds atlas configuration.
type Config struct {
	// Width and Height are the texture dimensions in pixels.
	// Default: 1024 x 1024
	Width, Height int

	// Padding is the gap between neighbouring glyphs, in pixels.
	// Default: 0
	Padding int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Width:  1024,
		Height: 1024,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width < 1 || c.Width > maxDimension {
		return &ConfigError{Field: "Width", Reason: "must be in [1, " + strconv.Itoa(maxDimension) + "]"}
	}
	if c.Height < 1 || c.Height > maxDimension {
		return &ConfigError{Field: "Height", Reason: "must be in [1, " + strconv.Itoa(maxDimension) + "]"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
