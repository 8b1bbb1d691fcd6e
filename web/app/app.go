// Package app serves the server-rendered dashboard: drop-down navigation with role
// cards, the profile catalog, the org chart, infographic decks and keyword search.
package app

import (
	"embed"
	"html/template"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/JaimeStill/jobarch/internal/cards"
	"github.com/JaimeStill/jobarch/internal/infographics"
	"github.com/JaimeStill/jobarch/internal/orgchart"
	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/formatting"
	"github.com/JaimeStill/jobarch/pkg/module"
	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/web"
)

//go:embed templates static
var content embed.FS

const layout = "app"

var (
	homeView         = web.ViewDef{Route: "/{$}", Template: "home.html", Title: "Overview", Nav: "home"}
	profilesView     = web.ViewDef{Route: "/profiles", Template: "profiles.html", Title: "Role Profiles", Nav: "profiles"}
	catalogView      = web.ViewDef{Route: "/catalog", Template: "catalog.html", Title: "Catalog", Nav: "catalog"}
	orgchartView     = web.ViewDef{Route: "/orgchart", Template: "orgchart.html", Title: "Org Chart", Nav: "orgchart"}
	infographicsView = web.ViewDef{Route: "/infographics", Template: "infographics.html", Title: "Infographics", Nav: "infographics"}
	previewView      = web.ViewDef{Route: "/infographics/{id}", Template: "preview.html", Title: "Deck Preview", Nav: "infographics"}
	searchView       = web.ViewDef{Route: "/search", Template: "search.html", Title: "Search", Nav: "search"}
	notFoundView     = web.ViewDef{Template: "404.html", Title: "Not Found"}
)

var views = []web.ViewDef{
	homeView,
	profilesView,
	catalogView,
	orgchartView,
	infographicsView,
	previewView,
	searchView,
	notFoundView,
}

// Config locates the dashboard and the API it links to.
type Config struct {
	BasePath   string
	APIBase    string
	Pagination pagination.Config
}

// Systems are the domain systems the pages read from.
type Systems struct {
	Profiles     profiles.System
	Infographics infographics.System
	OrgChart     orgchart.System
}

// Funcs returns the template functions available to every page.
func Funcs() template.FuncMap {
	funcs := template.FuncMap{
		"bytes": func(n int64) string { return formatting.FormatBytes(n, 1) },
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	}
	maps.Copy(funcs, cards.Funcs())
	return funcs
}

// NewModule creates the dashboard module mounted at cfg.BasePath.
func NewModule(cfg Config, sys Systems, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		content,
		"templates/layouts/*.html",
		"templates/views",
		cfg.BasePath,
		Funcs(),
		views,
	)
	if err != nil {
		return nil, err
	}

	h := newHandler(ts, sys, cfg, logger)

	router := web.NewRouter(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))
	router.Handle("GET /static/", web.DistServer(content, "static", "/static/"))

	router.Page(homeView, h.home)
	router.Page(profilesView, h.profiles)
	router.Page(catalogView, h.catalog)
	router.Page(orgchartView, h.orgchart)
	router.Page(infographicsView, h.infographics)
	router.Page(previewView, h.preview)
	router.Page(searchView, h.search)

	return module.New(cfg.BasePath, router), nil
}
