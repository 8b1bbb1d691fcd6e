package api

import (
	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/internal/infographics"
	"github.com/JaimeStill/jobarch/internal/orgchart"
	"github.com/JaimeStill/jobarch/internal/profiles"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Profiles     profiles.System
	Infographics infographics.System
	OrgChart     orgchart.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	profilesSystem := profiles.New(
		runtime.Tables,
		cfg.Data.ProfileTable,
		profiles.NewSchema(&cfg.Data),
		runtime.Logger,
		runtime.Pagination,
		runtime.SearchLimit,
	)

	infographicsSystem := infographics.New(
		runtime.Storage,
		runtime.Listings,
		infographics.Config{
			Dirs:            cfg.Attachments.Dirs,
			Extensions:      cfg.Attachments.Extensions,
			MaxPreviewBytes: cfg.Attachments.MaxPreviewBytes(),
		},
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Profiles:     profilesSystem,
		Infographics: infographicsSystem,
		OrgChart:     orgchart.New(profilesSystem, runtime.Logger),
	}
}
