// Package query provides sorting and text matching over in-memory record slices.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownSortField is returned when a sort field has no registered key.
var ErrUnknownSortField = errors.New("unknown sort field")

// SortField represents a single sort key.
// Field is the logical field name (mapped via Keys).
// Descending controls sort direction (false = ASC, true = DESC).
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// Keys maps logical field names to value extractors.
type Keys[T any] map[string]func(T) string

// ParseSortFields parses a comma-separated sort string into a SortField slice.
// Fields prefixed with "-" are descending. Example: "family,-grade".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{
				Field:      after,
				Descending: true,
			})
		} else {
			fields = append(fields, SortField{
				Field:      part,
				Descending: false,
			})
		}
	}

	return fields
}

// Sort orders items in place by fields, falling back to defaults when fields is empty.
// Comparison is case-insensitive; the sort is stable.
func Sort[T any](items []T, keys Keys[T], fields []SortField, defaults ...SortField) error {
	if len(fields) == 0 {
		fields = defaults
	}
	if len(fields) == 0 {
		return nil
	}

	for _, f := range fields {
		if _, ok := keys[f.Field]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSortField, f.Field)
		}
	}

	slices.SortStableFunc(items, func(a, b T) int {
		for _, f := range fields {
			key := keys[f.Field]
			c := strings.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
			if f.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return nil
}

// ContainsFold reports whether any value contains term, ignoring case.
// An empty term matches everything.
func ContainsFold(term string, values ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
