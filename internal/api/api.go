// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/internal/infrastructure"
	"github.com/JaimeStill/jobarch/pkg/middleware"
	"github.com/JaimeStill/jobarch/pkg/module"
	"github.com/JaimeStill/jobarch/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	spec, err := openapi.MarshalJSON(Specification(cfg, domain))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(runtime.Metrics.Middleware("api"))
	m.Use(middleware.Auth(runtime.Verifier, runtime.Logger))

	return m, nil
}
