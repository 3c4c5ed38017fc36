package profiles

import (
	"context"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/pagination"
)

// System defines the public contract for profile domain operations.
type System interface {
	Handler(claimer Claimer, authz auth.Authorizer) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Profile], error)

	Find(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	Register(ctx context.Context, cmd RegisterCommand) (*Profile, error)
}

// Claimer transfers credentials held against a bare email address to a
// registered profile. Implemented by the badges system; injected at
// handler construction so registration can sweep up pending awards.
type Claimer interface {
	Claim(ctx context.Context, userID uuid.UUID, email string) (int, error)
}
