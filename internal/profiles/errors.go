package profiles

import (
	"errors"
	"net/http"
)

// Domain errors for profile operations.
var (
	ErrNotFound     = errors.New("profile not found")
	ErrDuplicate    = errors.New("profile email already registered")
	ErrMissingEmail = errors.New("email is required")
)

// MapHTTPStatus maps profile domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrMissingEmail) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
