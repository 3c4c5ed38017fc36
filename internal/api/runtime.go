package api

import (
	"fmt"

	"github.com/technexus/emblem/internal/config"
	"github.com/technexus/emblem/internal/infrastructure"
	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// verifier and authorizer built from auth config.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Verifier   auth.Verifier
	Authorizer auth.Authorizer
}

// NewRuntime creates an API runtime with a module-scoped logger. OIDC
// verifier construction performs provider discovery against the issuer.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	verifier, err := cfg.Auth.NewVerifier(infra.Lifecycle.Context())
	if err != nil {
		return nil, fmt.Errorf("verifier init failed: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Mail:      infra.Mail,
		},
		Pagination: cfg.API.Pagination,
		Verifier:   verifier,
		Authorizer: cfg.Auth.NewAuthorizer(),
	}, nil
}
