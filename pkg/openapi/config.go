package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds document metadata. Servers lists absolute base URLs advertised to
// clients; leave it empty when the spec is served from the API host itself.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
// Servers is read as a comma-separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Job Architecture API"
	}
	if c.Description == "" {
		c.Description = "Read-only access to the job architecture taxonomy, role profiles, org chart and infographic decks."
	}

	if env != nil {
		if v := lookup(env.Title); v != "" {
			c.Title = v
		}
		if v := lookup(env.Description); v != "" {
			c.Description = v
		}
		if v := lookup(env.Servers); v != "" {
			c.Servers = nil
			for s := range strings.SplitSeq(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					c.Servers = append(c.Servers, s)
				}
			}
		}
	}

	for _, s := range c.Servers {
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid openapi server url: %q", s)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Servers != nil {
		c.Servers = overlay.Servers
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
