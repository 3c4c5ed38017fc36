package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrNoToken indicates the request carried no bearer token.
	ErrNoToken = errors.New("authorization required")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden indicates the identity lacks the required capability.
	ErrForbidden = errors.New("insufficient privileges")
)

// MapHTTPStatus maps auth errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNoToken) || errors.Is(err, ErrInvalidToken) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
