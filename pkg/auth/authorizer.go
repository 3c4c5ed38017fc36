package auth

import (
	"fmt"
	"strings"
)

// Authorizer answers whether an identity holds a capability. The backing
// store is an implementation detail: a role claim on the token, an email
// allowlist, or anything else that can answer the question.
type Authorizer interface {
	Authorize(id *Identity, capability Capability) error
}

type roleAuthorizer struct {
	role string
}

// NewRoleAuthorizer creates an Authorizer granting every capability to
// identities whose role claim matches the given role.
func NewRoleAuthorizer(role string) Authorizer {
	return &roleAuthorizer{role: role}
}

func (a *roleAuthorizer) Authorize(id *Identity, capability Capability) error {
	if id == nil {
		return ErrNoToken
	}
	if id.Role != a.role {
		return fmt.Errorf("%w: %s requires role %q", ErrForbidden, capability, a.role)
	}
	return nil
}

type allowlistAuthorizer struct {
	emails map[string]struct{}
}

// NewAllowlistAuthorizer creates an Authorizer granting every capability to
// identities whose email appears in the list. Matching is case-insensitive.
func NewAllowlistAuthorizer(emails []string) Authorizer {
	set := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			set[email] = struct{}{}
		}
	}
	return &allowlistAuthorizer{emails: set}
}

func (a *allowlistAuthorizer) Authorize(id *Identity, capability Capability) error {
	if id == nil {
		return ErrNoToken
	}
	if _, ok := a.emails[strings.ToLower(id.Email)]; !ok {
		return fmt.Errorf("%w: %s not permitted for %s", ErrForbidden, capability, id.Email)
	}
	return nil
}
