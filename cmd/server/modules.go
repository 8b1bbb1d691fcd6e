package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/jobarch/internal/api"
	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/internal/infrastructure"
	"github.com/JaimeStill/jobarch/pkg/middleware"
	"github.com/JaimeStill/jobarch/pkg/module"
	"github.com/JaimeStill/jobarch/web/app"
	"github.com/JaimeStill/jobarch/web/scalar"
)

const (
	appPrefix    = "/app"
	scalarPrefix = "/scalar"
)

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	domain := api.NewDomain(cfg, &api.Runtime{
		Infrastructure: infra.Scoped("module", "app"),
		Pagination:     cfg.API.Pagination,
		SearchLimit:    cfg.API.SearchLimit,
	})

	appModule, err := app.NewModule(
		app.Config{
			BasePath:   appPrefix,
			APIBase:    cfg.API.BasePath,
			Pagination: cfg.API.Pagination,
		},
		app.Systems{
			Profiles:     domain.Profiles,
			Infographics: domain.Infographics,
			OrgChart:     domain.OrgChart,
		},
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger.With("module", "app")))
	appModule.Use(middleware.Recover(infra.Logger.With("module", "app")))
	appModule.Use(infra.Metrics.Middleware("app"))
	appModule.Use(middleware.Auth(infra.Verifier, infra.Logger))

	scalarModule := scalar.NewModule(scalarPrefix, cfg.API.BasePath+"/openapi.json")
	scalarModule.Use(middleware.Logger(infra.Logger))
	scalarModule.Use(middleware.Recover(infra.Logger))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.Redirect("GET /{$}", appPrefix+"/")
	router.Handle("GET /metrics", infra.Metrics.Handler())

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"status": "not ready",
				"checks": infra.Lifecycle.Status(),
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ready",
			"checks": infra.Lifecycle.Status(),
		})
	})

	return router
}
