package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/technexus/emblem/pkg/handlers"
)

// Middleware returns module middleware that verifies a bearer token when one
// is present and attaches the resulting identity to the request context.
// Requests without an Authorization header pass through anonymously; route
// guards decide whether an identity is required.
func Middleware(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireIdentity wraps a handler, rejecting requests without a verified identity.
func RequireIdentity(logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			handlers.RespondError(w, logger, http.StatusUnauthorized, ErrNoToken)
			return
		}
		next(w, r)
	}
}

// Guard wraps a handler, rejecting requests whose identity lacks the capability.
func Guard(authz Authorizer, capability Capability, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			handlers.RespondError(w, logger, http.StatusUnauthorized, ErrNoToken)
			return
		}

		if err := authz.Authorize(id, capability); err != nil {
			handlers.RespondError(w, logger, MapHTTPStatus(err), err)
			return
		}

		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
