// Package config loads the service configuration from a TOML base file, an optional
// environment overlay, and JOBARCH_ environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/jobarch/pkg/middleware"
	"github.com/JaimeStill/jobarch/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvJobarchEnv             = "JOBARCH_ENV"
	EnvJobarchShutdownTimeout = "JOBARCH_SHUTDOWN_TIMEOUT"
	EnvJobarchVersion         = "JOBARCH_VERSION"
)

var storageEnv = &storage.Env{
	Provider:         "JOBARCH_STORAGE_PROVIDER",
	Root:             "JOBARCH_STORAGE_ROOT",
	ContainerName:    "JOBARCH_STORAGE_CONTAINER_NAME",
	ConnectionString: "JOBARCH_STORAGE_CONNECTION_STRING",
	AccountURL:       "JOBARCH_STORAGE_ACCOUNT_URL",
}

var authEnv = &middleware.AuthEnv{
	Enabled:   "JOBARCH_AUTH_ENABLED",
	IssuerURL: "JOBARCH_AUTH_ISSUER_URL",
	ClientID:  "JOBARCH_AUTH_CLIENT_ID",
}

// Config is the root configuration for the job architecture service.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Log             LogConfig             `toml:"log"`
	Data            DataConfig            `toml:"data"`
	Attachments     AttachmentsConfig     `toml:"attachments"`
	Storage         storage.Config        `toml:"storage"`
	API             APIConfig             `toml:"api"`
	Auth            middleware.AuthConfig `toml:"auth"`
	Watch           WatchConfig           `toml:"watch"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the JOBARCH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvJobarchEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads configuration from the working directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads the base config in dir (if present), applies any environment
// overlay from the same directory, and finalizes all values. If no config.toml
// exists, defaults and environment variables provide all configuration.
func LoadFrom(dir string) (*Config, error) {
	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Log.Merge(&overlay.Log)
	c.Data.Merge(&overlay.Data)
	c.Attachments.Merge(&overlay.Attachments)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Watch.Merge(&overlay.Watch)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Data.Finalize(); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if err := c.Attachments.Finalize(); err != nil {
		return fmt.Errorf("attachments: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Watch.Finalize(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvJobarchShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvJobarchVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvJobarchEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
