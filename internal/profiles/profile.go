// Package profiles navigates the job architecture taxonomy held in the profile
// spreadsheet: drop-down options per level, path resolution, the paginated
// catalog, and keyword search.
package profiles

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/jobarch/pkg/table"
)

// Section is a named block of descriptive text. Blank sections are never materialized.
type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Profile is one row of the profile table.
type Profile struct {
	JobFamily       string    `json:"job_family"`
	SubJobFamily    string    `json:"sub_job_family"`
	JobProfile      string    `json:"job_profile"`
	GlobalGrade     string    `json:"global_grade"`
	CareerPath      string    `json:"career_path"`
	FullJobCode     string    `json:"full_job_code"`
	RoleDescription string    `json:"role_description"`
	Sections        []Section `json:"sections"`
}

// Path returns the taxonomy path identifying p.
func (p Profile) Path() Path {
	return Path{Family: p.JobFamily, SubFamily: p.SubJobFamily, Profile: p.JobProfile}
}

// Path is a (family, sub-family, profile) selection. Any suffix may be empty.
type Path struct {
	Family    string `json:"family"`
	SubFamily string `json:"sub_family"`
	Profile   string `json:"profile"`
}

// PathFromQuery reads family, sub_family and profile query parameters.
func PathFromQuery(values url.Values) Path {
	return Path{
		Family:    strings.TrimSpace(values.Get("family")),
		SubFamily: strings.TrimSpace(values.Get("sub_family")),
		Profile:   strings.TrimSpace(values.Get("profile")),
	}
}

// Segments returns the three path levels in order.
func (p Path) Segments() []string {
	return []string{p.Family, p.SubFamily, p.Profile}
}

// Complete reports whether every level is selected.
func (p Path) Complete() bool {
	return p.Family != "" && p.SubFamily != "" && p.Profile != ""
}

// Query encodes p as URL query parameters, omitting empty levels.
func (p Path) Query() url.Values {
	v := url.Values{}
	if p.Family != "" {
		v.Set("family", p.Family)
	}
	if p.SubFamily != "" {
		v.Set("sub_family", p.SubFamily)
	}
	if p.Profile != "" {
		v.Set("profile", p.Profile)
	}
	return v
}

func (p Path) String() string {
	parts := make([]string, 0, 3)
	for _, s := range p.Segments() {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " / ")
}

// Options holds the drop-down values for each level, conditioned on the parent selection.
type Options struct {
	Path        Path     `json:"path"`
	Families    []string `json:"families"`
	SubFamilies []string `json:"sub_families"`
	Profiles    []string `json:"profiles"`
}

// Filters narrows the catalog with exact matches on the classifying columns.
type Filters struct {
	Family     string `json:"family,omitempty"`
	SubFamily  string `json:"sub_family,omitempty"`
	Grade      string `json:"grade,omitempty"`
	CareerPath string `json:"career_path,omitempty"`
}

// FiltersFromQuery reads family, sub_family, grade and career_path query parameters.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Family:     strings.TrimSpace(values.Get("family")),
		SubFamily:  strings.TrimSpace(values.Get("sub_family")),
		Grade:      strings.TrimSpace(values.Get("grade")),
		CareerPath: strings.TrimSpace(values.Get("career_path")),
	}
}

func (f Filters) table(s Schema) []table.Filter {
	var out []table.Filter
	add := func(col, val string) {
		if val != "" {
			out = append(out, table.Eq(col, val))
		}
	}
	add(s.Family, f.Family)
	add(s.SubFamily, f.SubFamily)
	add(s.Grade, f.Grade)
	add(s.CareerPath, f.CareerPath)
	return out
}

// Match is a search hit. Score is the percentage of query terms found.
type Match struct {
	Profile Profile `json:"profile"`
	Score   float64 `json:"score"`
}
