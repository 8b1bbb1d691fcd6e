package infographics

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/jobarch/pkg/storage"
)

// Domain errors for attachment operations.
var (
	ErrNotFound  = errors.New("attachment not found")
	ErrInvalidID = errors.New("invalid attachment id")
)

// MapHTTPStatus maps attachment errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidID) || errors.Is(err, storage.ErrInvalidKey) {
		return http.StatusBadRequest
	}
	if errors.Is(err, storage.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
