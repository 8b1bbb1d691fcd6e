// Package table loads spreadsheet files into row-oriented tables with named columns
// and provides exact-match filtering over them.
package table

import (
	"slices"
	"sort"
)

// Row maps column names to normalized cell values. Absent and blank cells are "".
type Row map[string]string

// Get returns the value for column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Filter is an exact-equality condition on a single column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds a Filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

func (f Filter) match(r Row) bool {
	return r.Get(f.Column) == f.Value
}

// Table is an immutable, loaded spreadsheet.
type Table struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the header row contains column.
func (t *Table) HasColumn(column string) bool {
	return slices.Contains(t.Columns, column)
}

// Missing returns the required columns absent from the header, in request order.
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Require returns a *LoadError naming every required column the table lacks.
func (t *Table) Require(required ...string) error {
	if missing := t.Missing(required...); len(missing) > 0 {
		return &LoadError{Path: t.Source, Missing: missing, Err: ErrMissingColumns}
	}
	return nil
}

// Filter returns the rows matching every filter. Filters with an empty column are ignored.
func (t *Table) Filter(filters ...Filter) []Row {
	if t == nil {
		return nil
	}
	out := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if matchAll(r, filters) {
			out = append(out, r)
		}
	}
	return out
}

// First returns the first row matching every filter.
func (t *Table) First(filters ...Filter) (Row, bool) {
	if t == nil {
		return nil, false
	}
	for _, r := range t.Rows {
		if matchAll(r, filters) {
			return r, true
		}
	}
	return nil, false
}

// Distinct returns the sorted, de-duplicated values of column across rows matching
// filters. Blank values are excluded.
func (t *Table) Distinct(column string, filters ...Filter) []string {
	seen := make(map[string]struct{})
	for _, r := range t.Filter(filters...) {
		v := r.Get(column)
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func matchAll(r Row, filters []Filter) bool {
	for _, f := range filters {
		if f.Column == "" {
			continue
		}
		if !f.match(r) {
			return false
		}
	}
	return true
}
