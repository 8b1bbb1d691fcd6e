package profiles

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/query"
	"github.com/JaimeStill/jobarch/pkg/table"
)

// BuildOptions returns the values for each drop-down level. A level is only
// populated once its parent is selected.
func BuildOptions(t *table.Table, s Schema, path Path) Options {
	opts := Options{
		Path:        path,
		Families:    t.Distinct(s.Family),
		SubFamilies: []string{},
		Profiles:    []string{},
	}
	if path.Family == "" {
		return opts
	}

	family := table.Eq(s.Family, path.Family)
	opts.SubFamilies = t.Distinct(s.SubFamily, family)
	if path.SubFamily == "" {
		return opts
	}

	opts.Profiles = t.Distinct(s.Profile, family, table.Eq(s.SubFamily, path.SubFamily))
	return opts
}

// Resolve returns the first row matching all three path levels exactly.
func Resolve(t *table.Table, s Schema, path Path) (Profile, error) {
	if !path.Complete() {
		return Profile{}, ErrIncompletePath
	}

	row, ok := t.First(
		table.Eq(s.Family, path.Family),
		table.Eq(s.SubFamily, path.SubFamily),
		table.Eq(s.Profile, path.Profile),
	)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return s.Decode(row), nil
}

// Distinct returns the distinct values of column across rows matching filters.
// Every column involved must exist in the table.
func Distinct(t *table.Table, column string, filters ...table.Filter) ([]string, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	for _, f := range filters {
		if !t.HasColumn(f.Column) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, f.Column)
		}
	}
	return t.Distinct(column, filters...), nil
}

var sortKeys = query.Keys[Profile]{
	"family":      func(p Profile) string { return p.JobFamily },
	"sub_family":  func(p Profile) string { return p.SubJobFamily },
	"profile":     func(p Profile) string { return p.JobProfile },
	"grade":       func(p Profile) string { return p.GlobalGrade },
	"career_path": func(p Profile) string { return p.CareerPath },
	"job_code":    func(p Profile) string { return p.FullJobCode },
}

var defaultSort = []query.SortField{
	{Field: "family"},
	{Field: "sub_family"},
	{Field: "profile"},
}

// List filters, searches, sorts and pages the profile rows.
// Search is a case-insensitive substring test over the classifying columns.
func List(t *table.Table, s Schema, filters Filters, page pagination.PageRequest) (pagination.PageResult[Profile], error) {
	items := s.Profiles(t.Filter(filters.table(s)...))

	if page.Search != nil {
		term := *page.Search
		items = slices.DeleteFunc(items, func(p Profile) bool {
			return !query.ContainsFold(term,
				p.JobFamily, p.SubJobFamily, p.JobProfile,
				p.GlobalGrade, p.CareerPath, p.FullJobCode,
			)
		})
	}

	if err := query.Sort(items, sortKeys, page.Sort, defaultSort...); err != nil {
		return pagination.PageResult[Profile]{}, err
	}
	return pagination.Paginate(items, page), nil
}

// Search scores every row by the share of query terms it contains and returns
// the best matches first, ties broken by path. At most limit matches are returned
// when limit is positive.
func Search(t *table.Table, s Schema, q string, limit int) ([]Match, error) {
	terms := strings.Fields(strings.ToLower(q))
	if len(terms) == 0 {
		return nil, ErrEmptyQuery
	}

	matches := []Match{}
	for _, r := range t.Rows {
		p := s.Decode(r)
		fields := searchable(p)

		found := 0
		for _, term := range terms {
			if query.ContainsFold(term, fields...) {
				found++
			}
		}
		if found == 0 {
			continue
		}
		matches = append(matches, Match{
			Profile: p,
			Score:   float64(found) / float64(len(terms)) * 100,
		})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Or(
			strings.Compare(a.Profile.JobFamily, b.Profile.JobFamily),
			strings.Compare(a.Profile.SubJobFamily, b.Profile.SubJobFamily),
			strings.Compare(a.Profile.JobProfile, b.Profile.JobProfile),
		)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func searchable(p Profile) []string {
	fields := []string{
		p.JobFamily, p.SubJobFamily, p.JobProfile,
		p.GlobalGrade, p.CareerPath, p.FullJobCode, p.RoleDescription,
	}
	for _, sec := range p.Sections {
		fields = append(fields, sec.Text)
	}
	return fields
}
