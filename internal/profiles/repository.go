package profiles

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/pagination"
	"github.com/technexus/emblem/pkg/query"
	"github.com/technexus/emblem/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a profile repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "profiles"),
		pagination: pagination,
	}
}

func (r *repo) Handler(claimer Claimer, authz auth.Authorizer) *Handler {
	return NewHandler(r, claimer, authz, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Profile], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Email", "FirstName", "LastName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	profiles, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}

	result := pagination.NewPageResult(profiles, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Profile, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	q := `
		SELECT id, email, first_name, last_name, designation, created_at
		FROM profiles
		WHERE lower(email) = lower($1)`

	p, err := repository.QueryOne(ctx, r.db, q, []any{email}, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*Profile, error) {
	if strings.TrimSpace(cmd.Email) == "" {
		return nil, ErrMissingEmail
	}

	if cmd.ID == uuid.Nil {
		cmd.ID = uuid.New()
	}

	q := `
		INSERT INTO profiles(id, email, first_name, last_name, designation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, first_name, last_name, designation, created_at`

	args := []any{cmd.ID, cmd.Email, cmd.FirstName, cmd.LastName, cmd.Designation}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Profile, error) {
		return repository.QueryOne(ctx, tx, q, args, scanProfile)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("profile registered", "id", p.ID, "email", p.Email)
	return &p, nil
}
