package bulk

import (
	"errors"
	"net/http"
)

// Domain errors for bulk issuance operations.
var (
	ErrNotFound     = errors.New("bulk job not found")
	ErrNoValidRows  = errors.New("no valid rows found in uploaded file")
	ErrTooManyRows  = errors.New("uploaded file exceeds the row limit")
	ErrMissingImage = errors.New("a badge image upload or image url is required")
	ErrNotRunning   = errors.New("bulk job is not running")
)

// MapHTTPStatus maps bulk domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNoValidRows) ||
		errors.Is(err, ErrTooManyRows) ||
		errors.Is(err, ErrMissingImage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotRunning) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
