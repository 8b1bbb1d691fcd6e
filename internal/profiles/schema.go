package profiles

import (
	"github.com/JaimeStill/jobarch/internal/config"
	"github.com/JaimeStill/jobarch/pkg/table"
)

// Schema names the profile table columns.
type Schema struct {
	Family      string
	SubFamily   string
	Profile     string
	Grade       string
	CareerPath  string
	JobCode     string
	Description string
	Sections    []string
}

// NewSchema builds a Schema from the data configuration.
func NewSchema(cfg *config.DataConfig) Schema {
	c := cfg.Columns
	return Schema{
		Family:      c.Family,
		SubFamily:   c.SubFamily,
		Profile:     c.Profile,
		Grade:       c.Grade,
		CareerPath:  c.CareerPath,
		JobCode:     c.JobCode,
		Description: c.Description,
		Sections:    cfg.Sections,
	}
}

// Keys returns the columns every taxonomy operation requires.
func (s Schema) Keys() []string {
	return []string{s.Family, s.SubFamily, s.Profile}
}

// Catalog returns the columns the catalog view requires.
func (s Schema) Catalog() []string {
	return append(s.Keys(), s.Grade, s.CareerPath)
}

// Decode converts a row. Section columns that are absent or blank are dropped.
func (s Schema) Decode(r table.Row) Profile {
	p := Profile{
		JobFamily:       r.Get(s.Family),
		SubJobFamily:    r.Get(s.SubFamily),
		JobProfile:      r.Get(s.Profile),
		GlobalGrade:     r.Get(s.Grade),
		CareerPath:      r.Get(s.CareerPath),
		FullJobCode:     r.Get(s.JobCode),
		RoleDescription: r.Get(s.Description),
		Sections:        []Section{},
	}
	for _, name := range s.Sections {
		if text := r.Get(name); text != "" {
			p.Sections = append(p.Sections, Section{Name: name, Text: text})
		}
	}
	return p
}

// Profiles converts rows in order.
func (s Schema) Profiles(rows []table.Row) []Profile {
	out := make([]Profile, len(rows))
	for i, r := range rows {
		out[i] = s.Decode(r)
	}
	return out
}
