package bulk

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/pagination"
	"github.com/technexus/emblem/pkg/query"
	"github.com/technexus/emblem/pkg/repository"
)

// JobStore persists bulk jobs and their per-row outcomes.
type JobStore interface {
	CreateJob(ctx context.Context, imageURL string, rows []Row) (*JobDetail, error)
	Job(ctx context.Context, id uuid.UUID) (*JobDetail, error)
	Jobs(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Job], error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	SetProgress(ctx context.Context, id uuid.UUID, progress int) error
	UpdateRow(ctx context.Context, jobID uuid.UUID, row Row) error
	Complete(ctx context.Context, id uuid.UUID, status JobStatus, failureCount int) error
	ResetInterrupted(ctx context.Context) (int, error)
}

var jobProjection = query.
	NewProjectionMap("public", "bulk_jobs", "j").
	Project("id", "ID").
	Project("status", "Status").
	Project("image_url", "ImageURL").
	Project("total_rows", "TotalRows").
	Project("progress", "Progress").
	Project("failure_count", "FailureCount").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var jobSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

func scanJob(s repository.Scanner) (Job, error) {
	var (
		j         Job
		completed sql.NullTime
	)

	err := s.Scan(
		&j.ID,
		&j.Status,
		&j.ImageURL,
		&j.TotalRows,
		&j.Progress,
		&j.FailureCount,
		&j.CreatedAt,
		&j.UpdatedAt,
		&completed,
	)
	if err != nil {
		return j, err
	}

	if completed.Valid {
		j.CompletedAt = &completed.Time
	}

	return j, nil
}

func scanRow(s repository.Scanner) (Row, error) {
	var r Row
	err := s.Scan(
		&r.Position,
		&r.Email,
		&r.BadgeName,
		&r.EventName,
		&r.Description,
		&r.CredentialID,
		&r.Status,
		&r.Message,
		&r.Notified,
	)
	return r, err
}

type pgStore struct {
	db         *sql.DB
	pagination pagination.Config
}

// NewStore creates a Postgres-backed JobStore.
func NewStore(db *sql.DB, pagination pagination.Config) JobStore {
	return &pgStore{db: db, pagination: pagination}
}

func (s *pgStore) CreateJob(ctx context.Context, imageURL string, rows []Row) (*JobDetail, error) {
	jobQ := `
		INSERT INTO bulk_jobs(image_url, total_rows)
		VALUES ($1, $2)
		RETURNING
			id, status, image_url, total_rows, progress,
			failure_count, created_at, updated_at, completed_at`

	rowQ := `
		INSERT INTO bulk_rows(
			job_id, position, email, badge_name, event_name,
			description, credential_id, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	job, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (Job, error) {
		j, err := repository.QueryOne(ctx, tx, jobQ, []any{imageURL, len(rows)}, scanJob)
		if err != nil {
			return Job{}, err
		}

		for _, r := range rows {
			_, err := tx.ExecContext(ctx, rowQ,
				j.ID, r.Position, r.Email, r.BadgeName, r.EventName,
				r.Description, r.CredentialID, r.Status,
			)
			if err != nil {
				return Job{}, fmt.Errorf("insert row %d: %w", r.Position, err)
			}
		}

		return j, nil
	})

	if err != nil {
		return nil, fmt.Errorf("create bulk job: %w", err)
	}

	return &JobDetail{Job: job, Rows: rows}, nil
}

func (s *pgStore) Job(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	q, args := query.NewBuilder(jobProjection).BuildSingle("ID", id)

	job, err := repository.QueryOne(ctx, s.db, q, args, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrNotFound)
	}

	rowsQ := `
		SELECT position, email, badge_name, event_name, description,
			credential_id, status, message, notified
		FROM bulk_rows
		WHERE job_id = $1
		ORDER BY position`

	rows, err := repository.QueryMany(ctx, s.db, rowsQ, []any{id}, scanRow)
	if err != nil {
		return nil, fmt.Errorf("query job rows: %w", err)
	}

	return &JobDetail{Job: job, Rows: rows}, nil
}

func (s *pgStore) Jobs(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Job], error) {
	page.Normalize(s.pagination)

	qb := query.NewBuilder(jobProjection, jobSort)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count bulk jobs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	jobs, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, scanJob)
	if err != nil {
		return nil, fmt.Errorf("query bulk jobs: %w", err)
	}

	result := pagination.NewPageResult(jobs, total, page.Page, page.PageSize)
	return &result, nil
}

func (s *pgStore) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx,
		`UPDATE bulk_jobs SET status = $1, updated_at = now() WHERE id = $2`,
		JobRunning, id,
	)
}

func (s *pgStore) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	return s.exec(ctx,
		`UPDATE bulk_jobs SET progress = $1, updated_at = now() WHERE id = $2`,
		progress, id,
	)
}

func (s *pgStore) UpdateRow(ctx context.Context, jobID uuid.UUID, row Row) error {
	return s.exec(ctx,
		`UPDATE bulk_rows
		SET status = $1, message = $2, notified = $3
		WHERE job_id = $4 AND position = $5`,
		row.Status, row.Message, row.Notified, jobID, row.Position,
	)
}

func (s *pgStore) Complete(
	ctx context.Context,
	id uuid.UUID,
	status JobStatus,
	failureCount int,
) error {
	return s.exec(ctx,
		`UPDATE bulk_jobs
		SET status = $1, failure_count = $2, updated_at = now(), completed_at = now()
		WHERE id = $3`,
		status, failureCount, id,
	)
}

// ResetInterrupted marks jobs left queued or running by a previous process
// as cancelled. Called once at startup before new jobs are accepted.
func (s *pgStore) ResetInterrupted(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bulk_jobs
		SET status = $1, updated_at = now(), completed_at = now()
		WHERE status IN ($2, $3)`,
		JobCancelled, JobQueued, JobRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("reset interrupted jobs: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *pgStore) exec(ctx context.Context, q string, args ...any) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(ctx, tx, q, args...); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return nil
}
