package badges

import (
	"errors"
	"net/http"
)

// Domain errors for badge operations.
var (
	ErrNotFound      = errors.New("badge not found")
	ErrDuplicate     = errors.New("credential id already exists")
	ErrMissingFields = errors.New("user email, badge name, and event name are required")
)

// MapHTTPStatus maps badge domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrMissingFields) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
