package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")

	cfg := pagination.Config{}
	env := &pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE", MaxPageSize: "TEST_MAX_PAGE"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error when default exceeds max")
	}
}

func TestConfigMerge(t *testing.T) {
	base := defaultConfig()
	base.Merge(&pagination.Config{MaxPageSize: 500})

	if base.DefaultPageSize != 20 || base.MaxPageSize != 500 {
		t.Errorf("merged = %+v", base)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values get defaults", pagination.PageRequest{}, 1, 20},
		{"negative page corrected", pagination.PageRequest{Page: -1, PageSize: 10}, 1, 10},
		{"page size clamped to max", pagination.PageRequest{Page: 1, PageSize: 500}, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage || tt.req.PageSize != tt.wantPageSize {
				t.Errorf("got page %d size %d, want %d %d", tt.req.Page, tt.req.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"15"},
		"search":    {"engineer"},
		"sort":      {"family,-grade"},
	}

	req := pagination.PageRequestFromQuery(values, defaultConfig())

	if req.Page != 2 || req.PageSize != 15 {
		t.Errorf("page/size = %d/%d, want 2/15", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "engineer" {
		t.Errorf("Search = %v, want engineer", req.Search)
	}
	want := []query.SortField{{Field: "family"}, {Field: "grade", Descending: true}}
	if len(req.Sort) != len(want) {
		t.Fatalf("Sort = %v, want %v", req.Sort, want)
	}
	for i := range want {
		if req.Sort[i] != want[i] {
			t.Errorf("Sort[%d] = %v, want %v", i, req.Sort[i], want[i])
		}
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	for _, input := range []string{
		`"family,-grade"`,
		`[{"field":"family"},{"field":"grade","descending":true}]`,
	} {
		var sf pagination.SortFields
		if err := json.Unmarshal([]byte(input), &sf); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if len(sf) != 2 || sf[1] != (query.SortField{Field: "grade", Descending: true}) {
			t.Errorf("unmarshal %s = %v", input, sf)
		}
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 100, 20, 5},
		{"remainder", 101, 20, 6},
		{"empty result", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
			if result.Data == nil {
				t.Error("Data should be empty slice, not nil")
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	tests := []struct {
		name string
		req  pagination.PageRequest
		want []string
	}{
		{"first page", pagination.PageRequest{Page: 1, PageSize: 2}, []string{"a", "b"}},
		{"last partial page", pagination.PageRequest{Page: 3, PageSize: 2}, []string{"e"}},
		{"past the end", pagination.PageRequest{Page: 9, PageSize: 2}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.Paginate(items, tt.req)
			if got.Total != 5 || got.TotalPages != 3 {
				t.Errorf("total/pages = %d/%d, want 5/3", got.Total, got.TotalPages)
			}
			if len(got.Data) != len(tt.want) {
				t.Fatalf("Data = %v, want %v", got.Data, tt.want)
			}
			for i := range tt.want {
				if got.Data[i] != tt.want[i] {
					t.Errorf("Data[%d] = %s, want %s", i, got.Data[i], tt.want[i])
				}
			}
		})
	}
}

func TestPageLink(t *testing.T) {
	values := url.Values{
		"family": {"Engineering"},
		"page":   {"1"},
		"sort":   {"-grade"},
	}

	got, err := url.ParseQuery(pagination.PageLink(values, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got.Get("page") != "3" || got.Get("family") != "Engineering" || got.Get("sort") != "-grade" {
		t.Errorf("PageLink = %v", got)
	}
	if values.Get("page") != "1" {
		t.Error("PageLink should not modify its input")
	}
}

func TestPageResultNavigation(t *testing.T) {
	tests := []struct {
		page, total      int
		wantPrev, wantNx bool
	}{
		{1, 5, false, true},
		{2, 5, true, true},
		{3, 5, true, false},
		{1, 0, false, false},
	}

	for _, tt := range tests {
		r := pagination.NewPageResult[string](nil, tt.total, tt.page, 2)
		if r.HasPrev() != tt.wantPrev || r.HasNext() != tt.wantNx {
			t.Errorf("page %d of total %d: prev=%v next=%v", tt.page, tt.total, r.HasPrev(), r.HasNext())
		}
	}
}

func TestConfigFinalizeInvalidEnv(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "twenty")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err == nil {
		t.Error("expected error for non-numeric page size")
	}
}
