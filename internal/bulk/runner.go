package bulk

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/google/uuid"

	"github.com/technexus/emblem/internal/badges"
	"github.com/technexus/emblem/internal/mail"
)

// Issuer issues a single badge. Satisfied by the badges system.
type Issuer interface {
	Issue(ctx context.Context, cmd badges.IssueCommand) (*badges.IssueResult, error)
}

// Notifier delivers a badge notification email. Satisfied by the mail system.
type Notifier interface {
	Send(ctx context.Context, n mail.Notification) error
}

// Runner drives a bulk job through its roster in fixed-size chunks. Rows
// within a chunk are issued concurrently; a chunk must fully complete
// before the next one begins. Cancellation is observed between chunks,
// so rows already dispatched always run to a terminal state.
type Runner struct {
	issuer    Issuer
	notifier  Notifier
	store     JobStore
	logger    *slog.Logger
	chunkSize int
	appURL    string
}

// NewRunner creates a Runner with the given dependencies and chunk size.
func NewRunner(
	issuer Issuer,
	notifier Notifier,
	store JobStore,
	logger *slog.Logger,
	chunkSize int,
	appURL string,
) *Runner {
	if chunkSize < 1 {
		chunkSize = 1
	}

	return &Runner{
		issuer:    issuer,
		notifier:  notifier,
		store:     store,
		logger:    logger.With("system", "bulk-runner"),
		chunkSize: chunkSize,
		appURL:    appURL,
	}
}

// Run processes the job's rows to completion or cancellation. Each row is
// persisted as it reaches a terminal state; progress is persisted after
// each chunk barrier. Run never returns an error for row failures; those
// are recorded on the rows and summarized in the job's failure count.
func (r *Runner) Run(ctx context.Context, jobID uuid.UUID, imageURL string, rows []Row) {
	total := len(rows)
	status := JobCompleted

	if err := r.store.MarkRunning(ctx, jobID); err != nil {
		r.logger.Error("mark job running failed", "jobId", jobID, "error", err)
	}

	for start := 0; start < total; start += r.chunkSize {
		if ctx.Err() != nil {
			status = JobCancelled
			break
		}

		end := min(start+r.chunkSize, total)

		g := new(errgroup.Group)
		g.SetLimit(r.chunkSize)

		for i := start; i < end; i++ {
			row := &rows[i]
			g.Go(func() error {
				r.processRow(ctx, jobID, imageURL, row)
				return nil
			})
		}

		g.Wait()

		progress := chunkProgress(end, total)
		if err := r.store.SetProgress(ctx, jobID, progress); err != nil {
			r.logger.Error("persist progress failed", "jobId", jobID, "error", err)
		}

		r.logger.Info("chunk completed",
			"jobId", jobID,
			"processed", end,
			"total", total,
			"progress", progress,
		)
	}

	failures := 0
	for i := range rows {
		if rows[i].Status == RowError {
			failures++
		}
	}

	if err := r.store.Complete(context.WithoutCancel(ctx), jobID, status, failures); err != nil {
		r.logger.Error("complete job failed", "jobId", jobID, "error", err)
	}

	r.logger.Info("bulk job finished",
		"jobId", jobID,
		"status", status,
		"total", total,
		"failures", failures,
	)
}

// processRow issues one badge and sends its notification. Issuance failure
// is the row's terminal error; a notification failure after successful
// issuance leaves the row successful with a warning message.
func (r *Runner) processRow(ctx context.Context, jobID uuid.UUID, imageURL string, row *Row) {
	result, err := r.issuer.Issue(ctx, badges.IssueCommand{
		UserEmail:        row.Email,
		BadgeName:        row.BadgeName,
		EventName:        row.EventName,
		BadgeDescription: row.Description,
		BadgeImageURL:    imageURL,
		CredentialID:     row.CredentialID,
	})
	if err != nil {
		row.Status = RowError
		row.Message = err.Error()
		r.persistRow(ctx, jobID, row)
		return
	}

	row.Status = RowSuccess
	if result.RequiresRegistration {
		row.Message = "Pending Registration"
	}

	notification := mail.Notification{
		ToEmail:   row.Email,
		BadgeName: row.BadgeName,
		EventName: row.EventName,
		BadgeLink: fmt.Sprintf("%s/dashboard/badge/%s", r.appURL, result.Badge.ID),
		NewUser:   result.RequiresRegistration,
	}

	if err := r.notifier.Send(ctx, notification); err != nil {
		row.Notified = false
		if row.Message != "" {
			row.Message += "; "
		}
		row.Message += "notification failed: " + err.Error()
		r.logger.Warn("notification failed",
			"jobId", jobID,
			"position", row.Position,
			"error", err,
		)
	} else {
		row.Notified = true
	}

	r.persistRow(ctx, jobID, row)
}

func (r *Runner) persistRow(ctx context.Context, jobID uuid.UUID, row *Row) {
	if err := r.store.UpdateRow(context.WithoutCancel(ctx), jobID, *row); err != nil {
		r.logger.Error("persist row failed",
			"jobId", jobID,
			"position", row.Position,
			"error", err,
		)
	}
}

// chunkProgress reports the whole percentage of the roster whose chunk has
// completed, rounded to the nearest integer.
func chunkProgress(processed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(min(processed, total)) * 100 / float64(total)))
}
