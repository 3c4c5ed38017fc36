package badges

import (
	"context"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/pagination"
)

// System defines the public contract for badge domain operations.
type System interface {
	Handler(authz auth.Authorizer) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[AdminBadge], error)

	Find(ctx context.Context, id uuid.UUID) (*Badge, error)
	ForUser(ctx context.Context, userID uuid.UUID) ([]Badge, error)
	Issue(ctx context.Context, cmd IssueCommand) (*IssueResult, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	Claim(ctx context.Context, userID uuid.UUID, email string) (int, error)
}
