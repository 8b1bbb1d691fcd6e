package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvWatchEnabled  = "JOBARCH_WATCH_ENABLED"
	EnvWatchDebounce = "JOBARCH_WATCH_DEBOUNCE"
)

// WatchConfig controls the file watcher that invalidates cached tables and
// attachment indexes. It only applies to filesystem storage.
type WatchConfig struct {
	Enabled  bool   `toml:"enabled"`
	Debounce string `toml:"debounce"`
}

// DebounceDuration returns Debounce as a time.Duration.
func (c *WatchConfig) DebounceDuration() time.Duration {
	return duration(c.Debounce)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WatchConfig) Finalize() error {
	if c.Debounce == "" {
		c.Debounce = "500ms"
	}
	if v := os.Getenv(EnvWatchEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvWatchDebounce); v != "" {
		c.Debounce = v
	}
	if _, err := time.ParseDuration(c.Debounce); err != nil {
		return fmt.Errorf("invalid debounce: %w", err)
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *WatchConfig) Merge(overlay *WatchConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Debounce != "" {
		c.Debounce = overlay.Debounce
	}
}
