// Package auth provides bearer-token verification and capability-based
// authorization for admin operations. Verification is delegated to the
// hosted identity provider (OIDC discovery, or a shared-secret HS256
// verifier for local environments); authorization is a capability check
// against the verified identity, independent of any configuration source.
package auth

import "context"

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	Subject string
	Email   string
	Role    string
}

// Capability names a guarded operation class.
type Capability string

const (
	CapabilityIssue  Capability = "issue"
	CapabilityRevoke Capability = "revoke"
	CapabilityList   Capability = "list"
)

type contextKey struct{}

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom extracts the verified identity from the context, if present.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}
