package api

import (
	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/internal/infrastructure"
	"github.com/JaimeStill/jobarch/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	SearchLimit int
}

// NewRuntime scopes infra to the api module and attaches the API settings.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: infra.Scoped("module", "api"),
		Pagination:     cfg.API.Pagination,
		SearchLimit:    cfg.API.SearchLimit,
	}
}
