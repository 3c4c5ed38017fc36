// Package bulk implements chunked bulk badge issuance: a CSV roster and a
// shared badge image are submitted together, rows are processed in bounded
// concurrent chunks, and per-row outcomes are persisted so jobs survive
// restarts and can be inspected after completion.
package bulk

import (
	"time"

	"github.com/google/uuid"
)

// RowStatus is the lifecycle state of a single roster row.
type RowStatus string

const (
	RowPending RowStatus = "pending"
	RowSuccess RowStatus = "success"
	RowError   RowStatus = "error"
)

// JobStatus is the lifecycle state of a bulk issuance job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

// Row is a single roster entry. Position is the zero-based index in the
// parsed roster and identifies the row for the life of the job.
type Row struct {
	Position     int       `json:"position"`
	Email        string    `json:"email"`
	BadgeName    string    `json:"badge_name"`
	EventName    string    `json:"event_name"`
	Description  string    `json:"description,omitempty"`
	CredentialID string    `json:"credential_id,omitempty"`
	Status       RowStatus `json:"status"`
	Message      string    `json:"message,omitempty"`
	Notified     bool      `json:"notified"`
}

// Job is the persisted record of a bulk issuance run. Progress is a whole
// percentage of rows whose chunk has completed.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	Status       JobStatus  `json:"status"`
	ImageURL     string     `json:"image_url"`
	TotalRows    int        `json:"total_rows"`
	Progress     int        `json:"progress"`
	FailureCount int        `json:"failure_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// JobDetail is a job together with its rows in roster order.
type JobDetail struct {
	Job
	Rows []Row `json:"rows"`
}
