package query_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/jobarch/pkg/query"
)

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "family",
			want:  []query.SortField{{Field: "family", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-grade",
			want:  []query.SortField{{Field: "grade", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "family,-grade",
			want: []query.SortField{
				{Field: "family", Descending: false},
				{Field: "grade", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " family , -grade ",
			want: []query.SortField{
				{Field: "family", Descending: false},
				{Field: "grade", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "family,,grade",
			want: []query.SortField{
				{Field: "family", Descending: false},
				{Field: "grade", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}


type role struct {
	family string
	grade  string
}

var roleKeys = query.Keys[role]{
	"family": func(r role) string { return r.family },
	"grade":  func(r role) string { return r.grade },
}

func TestSort(t *testing.T) {
	tests := []struct {
		name     string
		fields   []query.SortField
		defaults []query.SortField
		want     []role
	}{
		{
			name:   "ascending case-insensitive",
			fields: query.ParseSortFields("family,grade"),
			want: []role{
				{"engineering", "G4"}, {"Engineering", "G5"}, {"Finance", "G3"},
			},
		},
		{
			name:   "descending second key",
			fields: query.ParseSortFields("family,-grade"),
			want: []role{
				{"Engineering", "G5"}, {"engineering", "G4"}, {"Finance", "G3"},
			},
		},
		{
			name:     "defaults apply when no fields given",
			defaults: []query.SortField{{Field: "grade", Descending: true}},
			want: []role{
				{"Engineering", "G5"}, {"engineering", "G4"}, {"Finance", "G3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []role{{"Finance", "G3"}, {"Engineering", "G5"}, {"engineering", "G4"}}
			if err := query.Sort(items, roleKeys, tt.fields, tt.defaults...); err != nil {
				t.Fatalf("Sort: %v", err)
			}
			for i := range items {
				if items[i] != tt.want[i] {
					t.Errorf("items[%d] = %v, want %v", i, items[i], tt.want[i])
				}
			}
		})
	}
}

func TestSortUnknownField(t *testing.T) {
	items := []role{{"Finance", "G3"}}
	err := query.Sort(items, roleKeys, query.ParseSortFields("salary"))
	if !errors.Is(err, query.ErrUnknownSortField) {
		t.Errorf("got %v, want ErrUnknownSortField", err)
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		term   string
		values []string
		want   bool
	}{
		{term: "", values: nil, want: true},
		{term: "ENGINEER", values: []string{"Backend", "Senior Engineer"}, want: true},
		{term: "  analyst ", values: []string{"Financial Analyst"}, want: true},
		{term: "legal", values: []string{"Engineering", "Finance"}, want: false},
	}

	for _, tt := range tests {
		if got := query.ContainsFold(tt.term, tt.values...); got != tt.want {
			t.Errorf("ContainsFold(%q, %v) = %v, want %v", tt.term, tt.values, got, tt.want)
		}
	}
}
