package bulk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"

	"github.com/google/uuid"

	"github.com/technexus/emblem/pkg/auth"
	"github.com/technexus/emblem/pkg/lifecycle"
	"github.com/technexus/emblem/pkg/pagination"
	"github.com/technexus/emblem/pkg/storage"
)

// System defines the public contract for bulk issuance operations.
type System interface {
	Handler(authz auth.Authorizer, maxUploadSize int64) *Handler

	Start(lc *lifecycle.Coordinator)
	Submit(ctx context.Context, cmd SubmitCommand) (*JobDetail, error)
	Job(ctx context.Context, id uuid.UUID) (*JobDetail, error)
	Jobs(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Job], error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Template() []byte
}

// ImageUpload is a badge image submitted alongside the roster.
type ImageUpload struct {
	Name        string
	ContentType string
	Data        io.Reader
}

// SubmitCommand carries a bulk submission: the roster text plus either an
// image upload or the URL of a previously uploaded image.
type SubmitCommand struct {
	Roster   []byte
	Image    *ImageUpload
	ImageURL string
}

type system struct {
	store      JobStore
	storage    storage.System
	runner     *Runner
	logger     *slog.Logger
	pagination pagination.Config
	maxRows    int

	base context.Context

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

// New creates the bulk issuance system. Background runs derive from base,
// so server shutdown cancels in-flight jobs at the next chunk boundary.
func New(
	base context.Context,
	store JobStore,
	storage storage.System,
	runner *Runner,
	logger *slog.Logger,
	pagination pagination.Config,
	cfg Config,
) System {
	return &system{
		store:      store,
		storage:    storage,
		runner:     runner,
		logger:     logger.With("system", "bulk"),
		pagination: pagination,
		maxRows:    cfg.MaxRows,
		base:       base,
		cancels:    make(map[uuid.UUID]context.CancelFunc),
	}
}

func (s *system) Handler(authz auth.Authorizer, maxUploadSize int64) *Handler {
	return NewHandler(s, authz, s.logger, s.pagination, maxUploadSize)
}

// Start registers a startup hook that cancels jobs orphaned by a previous
// process, so stale queued or running records never linger.
func (s *system) Start(lc *lifecycle.Coordinator) {
	lc.OnStartup(func() {
		n, err := s.store.ResetInterrupted(lc.Context())
		if err != nil {
			s.logger.Error("reset interrupted jobs failed", "error", err)
			return
		}
		if n > 0 {
			s.logger.Warn("interrupted bulk jobs cancelled", "count", n)
		}
	})
}

func (s *system) Submit(ctx context.Context, cmd SubmitCommand) (*JobDetail, error) {
	rows, err := ParseRoster(string(cmd.Roster))
	if err != nil {
		return nil, err
	}

	if len(rows) > s.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, len(rows), s.maxRows)
	}

	imageURL, err := s.resolveImage(ctx, cmd)
	if err != nil {
		return nil, err
	}

	detail, err := s.store.CreateJob(ctx, imageURL, rows)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(s.base)
	s.mu.Lock()
	s.cancels[detail.ID] = cancel
	s.mu.Unlock()

	// The runner mutates row state as it processes; give it its own copy
	// so the returned detail stays stable while the caller encodes it.
	runRows := make([]Row, len(detail.Rows))
	copy(runRows, detail.Rows)

	go func() {
		defer s.release(detail.ID)
		s.runner.Run(runCtx, detail.ID, imageURL, runRows)
	}()

	s.logger.Info("bulk job submitted",
		"jobId", detail.ID,
		"rows", len(rows),
		"imageUrl", imageURL,
	)

	return detail, nil
}

func (s *system) Job(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	return s.store.Job(ctx, id)
}

func (s *system) Jobs(
	ctx context.Context,
	page pagination.PageRequest,
) (*pagination.PageResult[Job], error) {
	return s.store.Jobs(ctx, page)
}

// Cancel requests cooperative cancellation of a running job. Rows already
// dispatched in the current chunk still run to a terminal state.
func (s *system) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	s.mu.Unlock()

	if ok {
		cancel()
		s.logger.Info("bulk job cancellation requested", "jobId", id)
		return nil
	}

	detail, err := s.store.Job(ctx, id)
	if err != nil {
		return err
	}

	return fmt.Errorf("%w: status %s", ErrNotRunning, detail.Status)
}

func (s *system) Template() []byte {
	return Template()
}

// resolveImage enforces the shared-image gate: a submission without a
// usable image never reaches the roster, so no partial batch can start.
func (s *system) resolveImage(ctx context.Context, cmd SubmitCommand) (string, error) {
	if cmd.ImageURL != "" {
		return cmd.ImageURL, nil
	}

	if cmd.Image == nil {
		return "", ErrMissingImage
	}

	key := fmt.Sprintf("bulk/%s%s", uuid.New(), path.Ext(cmd.Image.Name))
	url, err := s.storage.Upload(ctx, key, cmd.Image.Data, cmd.Image.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload badge image: %w", err)
	}

	return url, nil
}

func (s *system) release(id uuid.UUID) {
	s.mu.Lock()
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	s.mu.Unlock()
}
