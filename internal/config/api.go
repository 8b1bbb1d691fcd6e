package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/jobarch/pkg/middleware"
	"github.com/JaimeStill/jobarch/pkg/openapi"
	"github.com/JaimeStill/jobarch/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "JOBARCH_CORS_ENABLED",
	Origins:          "JOBARCH_CORS_ORIGINS",
	AllowedMethods:   "JOBARCH_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "JOBARCH_CORS_ALLOWED_HEADERS",
	AllowCredentials: "JOBARCH_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "JOBARCH_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "JOBARCH_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "JOBARCH_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "JOBARCH_OPENAPI_TITLE",
	Description: "JOBARCH_OPENAPI_DESCRIPTION",
	Servers:     "JOBARCH_OPENAPI_SERVERS",
}

// APIConfig holds API routing, CORS, pagination, and search settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	SearchLimit int                   `toml:"search_limit"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Pagination  pagination.Config     `toml:"pagination"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, pagination, and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be positive")
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.SearchLimit != 0 {
		c.SearchLimit = overlay.SearchLimit
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 20
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("JOBARCH_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("JOBARCH_API_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SearchLimit = n
		}
	}
}
