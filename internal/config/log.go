package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	EnvLogFormat = "JOBARCH_LOG_FORMAT"
	EnvLogLevel  = "JOBARCH_LOG_LEVEL"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig selects the slog handler and minimum level.
type LogConfig struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// SlogLevel returns Level as a slog.Level.
func (c *LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LogConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LogConfig) Merge(overlay *LogConfig) {
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
}

func (c *LogConfig) loadDefaults() {
	if c.Format == "" {
		c.Format = LogFormatText
	}
	if c.Level == "" {
		c.Level = "info"
	}
}

func (c *LogConfig) loadEnv() {
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Level = v
	}
}

func (c *LogConfig) validate() error {
	c.Format = strings.ToLower(c.Format)
	if c.Format != LogFormatText && c.Format != LogFormatJSON {
		return fmt.Errorf("invalid format: %s", c.Format)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level: %s", c.Level)
	}
	return nil
}
