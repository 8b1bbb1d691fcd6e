package profiles

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/jobarch/pkg/query"
	"github.com/JaimeStill/jobarch/pkg/storage"
	"github.com/JaimeStill/jobarch/pkg/table"
)

// Domain errors for taxonomy operations.
var (
	ErrNotFound       = errors.New("no role found")
	ErrIncompletePath = errors.New("family, sub_family and profile are required")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrEmptyQuery     = errors.New("search query is empty")
)

// MapHTTPStatus maps taxonomy and table errors to HTTP status codes.
// A missing, unreachable or malformed spreadsheet is reported as 503.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIncompletePath),
		errors.Is(err, ErrUnknownColumn),
		errors.Is(err, ErrEmptyQuery),
		errors.Is(err, query.ErrUnknownSortField):
		return http.StatusBadRequest
	case errors.Is(err, table.ErrFileNotFound),
		errors.Is(err, table.ErrMissingColumns),
		errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
