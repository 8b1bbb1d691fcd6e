package api

import (
	"net/http"

	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/internal/infographics"
	"github.com/JaimeStill/jobarch/internal/orgchart"
	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/openapi"
	"github.com/JaimeStill/jobarch/pkg/routes"
)

func (d *Domain) groups() []routes.Group {
	return []routes.Group{
		d.Profiles.Handler().Routes(),
		d.OrgChart.Handler().Routes(),
		d.Infographics.Handler().Routes(),
	}
}

var tags = []openapi.Tag{
	{Name: "Taxonomy", Description: "Drop-down values for the family, sub-family and profile levels."},
	{Name: "Profiles", Description: "Role profiles: catalog, path resolution and keyword search."},
	{Name: "Org Chart", Description: "Family to sub-family to profile graph."},
	{Name: "Infographics", Description: "Slide-deck and PDF attachments matched to roles."},
	{Name: "Cache", Description: "Read-through cache inspection and invalidation."},
}

// Specification documents every API route under cfg.API.BasePath.
func Specification(cfg *config.Config, domain *Domain) *openapi.Spec {
	spec := openapi.FromConfig(&cfg.API.OpenAPI, cfg.Version)
	for _, t := range tags {
		spec.AddTag(t.Name, t.Description)
	}

	routes.Document(spec, cfg.API.BasePath, append(domain.groups(), cacheRoutes(nil))...)

	spec.Components.AddSchemas(profiles.Schemas)
	spec.Components.AddSchemas(infographics.Schemas)
	spec.Components.AddSchemas(orgchart.Schemas)
	spec.Components.AddSchemas(cacheSchemas)
	return spec
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
	spec []byte,
) {
	routes.Register(mux, domain.groups()...)
	routes.Register(mux, cacheRoutes(newCacheHandler(runtime)))
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
}
