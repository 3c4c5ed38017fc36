package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier validates a raw bearer token and produces the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier creates a Verifier backed by OIDC discovery against the
// configured issuer. Token signatures are checked against the provider's
// published keys and the audience must match clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery %s: %w", issuer, err)
	}

	return &oidcVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: extract claims: %w", ErrInvalidToken, err)
	}

	return &Identity{
		Subject: token.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}
