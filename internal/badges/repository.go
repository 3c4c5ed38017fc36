package badges

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/technexus/emblem/internal/profiles"
	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/pagination"
	"github.com/technexus/emblem/pkg/query"
	"github.com/technexus/emblem/pkg/repository"
)

type repo struct {
	db         *sql.DB
	profiles   profiles.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a badge repository implementing the System interface.
func New(
	db *sql.DB,
	profiles profiles.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		profiles:   profiles,
		logger:     logger.With("system", "badges"),
		pagination: pagination,
	}
}

func (r *repo) Handler(authz auth.Authorizer) *Handler {
	return NewHandler(r, authz, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[AdminBadge], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(adminProjection, defaultSort).
		WhereSearch(page.Search, "BadgeName", "EventName", "HolderEmail", "RecipientEmail")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count badges: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	badges, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAdminBadge)
	if err != nil {
		return nil, fmt.Errorf("query badges: %w", err)
	}

	result := pagination.NewPageResult(badges, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Badge, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	b, err := repository.QueryOne(ctx, r.db, q, args, scanBadge)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &b, nil
}

func (r *repo) ForUser(ctx context.Context, userID uuid.UUID) ([]Badge, error) {
	qb := query.NewBuilder(projection, defaultSort)
	qb.WhereEquals("UserID", userID)

	q, args := qb.Build()
	badges, err := repository.QueryMany(ctx, r.db, q, args, scanBadge)
	if err != nil {
		return nil, fmt.Errorf("query user badges: %w", err)
	}
	return badges, nil
}

func (r *repo) Issue(ctx context.Context, cmd IssueCommand) (*IssueResult, error) {
	if strings.TrimSpace(cmd.UserEmail) == "" ||
		strings.TrimSpace(cmd.BadgeName) == "" ||
		strings.TrimSpace(cmd.EventName) == "" {
		return nil, ErrMissingFields
	}

	var (
		userID    uuid.NullUUID
		recipient sql.NullString
		requires  bool
	)

	p, err := r.profiles.FindByEmail(ctx, cmd.UserEmail)
	switch {
	case err == nil:
		userID = uuid.NullUUID{UUID: p.ID, Valid: true}
	case errors.Is(err, profiles.ErrNotFound):
		recipient = sql.NullString{String: cmd.UserEmail, Valid: true}
		requires = true
	default:
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}

	q := `
		INSERT INTO badges(
			user_id, recipient_email, badge_name, event_name,
			badge_description, badge_image_url, credential_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING
			id, user_id, recipient_email, badge_name, event_name,
			badge_description, badge_image_url, credential_id,
			issued_date, created_at`

	args := []any{
		userID, recipient, cmd.BadgeName, cmd.EventName,
		cmd.BadgeDescription, cmd.BadgeImageURL, cmd.CredentialID,
	}

	b, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Badge, error) {
		return repository.QueryOne(ctx, tx, q, args, scanBadge)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("badge issued",
		"id", b.ID,
		"badge", b.BadgeName,
		"event", b.EventName,
		"requiresRegistration", requires,
	)

	return &IssueResult{Badge: b, RequiresRegistration: requires}, nil
}

func (r *repo) Revoke(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM badges WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("badge revoked", "id", id)
	return nil
}

func (r *repo) Claim(ctx context.Context, userID uuid.UUID, email string) (int, error) {
	q := `
		UPDATE badges
		SET user_id = $1, recipient_email = NULL
		WHERE user_id IS NULL AND lower(recipient_email) = lower($2)`

	claimed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, q, userID, email)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})

	if err != nil {
		return 0, fmt.Errorf("claim badges: %w", err)
	}

	if claimed > 0 {
		r.logger.Info("badges claimed", "userId", userID, "count", claimed)
	}

	return int(claimed), nil
}
