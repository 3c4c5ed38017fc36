package bulk_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/technexus/emblem/internal/badges"
	"github.com/technexus/emblem/internal/bulk"
	"github.com/technexus/emblem/internal/mail"
	"github.com/technexus/emblem/pkg/pagination"
)

type fakeStore struct {
	mu           sync.Mutex
	progress     []int
	rows         map[int]bulk.Row
	status       bulk.JobStatus
	failureCount int
	completed    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int]bulk.Row)}
}

func (s *fakeStore) CreateJob(_ context.Context, imageURL string, rows []bulk.Row) (*bulk.JobDetail, error) {
	return &bulk.JobDetail{
		Job:  bulk.Job{ID: uuid.New(), Status: bulk.JobQueued, ImageURL: imageURL, TotalRows: len(rows)},
		Rows: rows,
	}, nil
}

func (s *fakeStore) Job(_ context.Context, id uuid.UUID) (*bulk.JobDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &bulk.JobDetail{Job: bulk.Job{ID: id, Status: s.status}}, nil
}

func (s *fakeStore) Jobs(_ context.Context, _ pagination.PageRequest) (*pagination.PageResult[bulk.Job], error) {
	result := pagination.NewPageResult([]bulk.Job{}, 0, 1, 20)
	return &result, nil
}

func (s *fakeStore) MarkRunning(_ context.Context, _ uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = bulk.JobRunning
	return nil
}

func (s *fakeStore) SetProgress(_ context.Context, _ uuid.UUID, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, progress)
	return nil
}

func (s *fakeStore) UpdateRow(_ context.Context, _ uuid.UUID, row bulk.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.Position] = row
	return nil
}

func (s *fakeStore) Complete(_ context.Context, _ uuid.UUID, status bulk.JobStatus, failureCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.failureCount = failureCount
	s.completed = true
	return nil
}

func (s *fakeStore) ResetInterrupted(_ context.Context) (int, error) {
	return 0, nil
}

type fakeIssuer struct {
	mu    sync.Mutex
	calls int
	fn    func(cmd badges.IssueCommand) (*badges.IssueResult, error)
}

func (f *fakeIssuer) Issue(_ context.Context, cmd badges.IssueCommand) (*badges.IssueResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(cmd)
	}

	return &badges.IssueResult{
		Badge: badges.Badge{ID: uuid.New(), BadgeName: cmd.BadgeName, EventName: cmd.EventName},
	}, nil
}

func (f *fakeIssuer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []mail.Notification
	fn   func(n mail.Notification) error
}

func (f *fakeNotifier) Send(_ context.Context, n mail.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fn != nil {
		if err := f.fn(n); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, n)
	return nil
}

func makeRows(n int) []bulk.Row {
	rows := make([]bulk.Row, n)
	for i := range rows {
		rows[i] = bulk.Row{
			Position:  i,
			Email:     fmt.Sprintf("user%d@example.com", i),
			BadgeName: "Badge",
			EventName: "Event",
			Status:    bulk.RowPending,
		}
	}
	return rows
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunnerChunkProgress(t *testing.T) {
	store := newFakeStore()
	issuer := &fakeIssuer{}
	notifier := &fakeNotifier{}
	runner := bulk.NewRunner(issuer, notifier, store, testLogger(), 20, "https://app.example.com")

	rows := makeRows(25)
	runner.Run(context.Background(), uuid.New(), "https://img.example.com/b.png", rows)

	want := []int{80, 100}
	if len(store.progress) != len(want) {
		t.Fatalf("progress updates = %v, want %v", store.progress, want)
	}
	for i, p := range want {
		if store.progress[i] != p {
			t.Errorf("progress[%d] = %d, want %d", i, store.progress[i], p)
		}
	}

	if issuer.callCount() != 25 {
		t.Errorf("issue calls = %d, want 25", issuer.callCount())
	}
	if store.status != bulk.JobCompleted {
		t.Errorf("status = %q, want completed", store.status)
	}
	if store.failureCount != 0 {
		t.Errorf("failures = %d, want 0", store.failureCount)
	}

	for i := range rows {
		persisted, ok := store.rows[i]
		if !ok {
			t.Fatalf("row %d never persisted", i)
		}
		if persisted.Status != bulk.RowSuccess {
			t.Errorf("row %d status = %q, want success", i, persisted.Status)
		}
		if !persisted.Notified {
			t.Errorf("row %d not notified", i)
		}
	}
}

func TestRunnerRowFailures(t *testing.T) {
	store := newFakeStore()
	issuer := &fakeIssuer{
		fn: func(cmd badges.IssueCommand) (*badges.IssueResult, error) {
			if strings.HasPrefix(cmd.UserEmail, "user1@") || strings.HasPrefix(cmd.UserEmail, "user3@") {
				return nil, errors.New("database unavailable")
			}
			return &badges.IssueResult{Badge: badges.Badge{ID: uuid.New()}}, nil
		},
	}
	notifier := &fakeNotifier{}
	runner := bulk.NewRunner(issuer, notifier, store, testLogger(), 5, "https://app.example.com")

	runner.Run(context.Background(), uuid.New(), "url", makeRows(5))

	if store.status != bulk.JobCompleted {
		t.Errorf("status = %q, want completed", store.status)
	}
	if store.failureCount != 2 {
		t.Errorf("failures = %d, want 2", store.failureCount)
	}

	failed := store.rows[1]
	if failed.Status != bulk.RowError {
		t.Errorf("row 1 status = %q, want error", failed.Status)
	}
	if failed.Message != "database unavailable" {
		t.Errorf("row 1 message = %q", failed.Message)
	}
	if failed.Notified {
		t.Error("failed row should not be notified")
	}

	if len(notifier.sent) != 3 {
		t.Errorf("notifications = %d, want 3", len(notifier.sent))
	}
}

func TestRunnerNotificationFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	issuer := &fakeIssuer{}
	notifier := &fakeNotifier{
		fn: func(_ mail.Notification) error {
			return errors.New("smtp rejected")
		},
	}
	runner := bulk.NewRunner(issuer, notifier, store, testLogger(), 5, "https://app.example.com")

	runner.Run(context.Background(), uuid.New(), "url", makeRows(2))

	if store.failureCount != 0 {
		t.Errorf("failures = %d, want 0", store.failureCount)
	}

	row := store.rows[0]
	if row.Status != bulk.RowSuccess {
		t.Errorf("status = %q, want success", row.Status)
	}
	if row.Notified {
		t.Error("row should be marked unnotified")
	}
	if !strings.Contains(row.Message, "notification failed") {
		t.Errorf("message = %q, want notification warning", row.Message)
	}
}

func TestRunnerPendingRegistrationMessage(t *testing.T) {
	store := newFakeStore()
	issuer := &fakeIssuer{
		fn: func(_ badges.IssueCommand) (*badges.IssueResult, error) {
			return &badges.IssueResult{
				Badge:                badges.Badge{ID: uuid.New()},
				RequiresRegistration: true,
			}, nil
		},
	}
	notifier := &fakeNotifier{}
	runner := bulk.NewRunner(issuer, notifier, store, testLogger(), 5, "https://app.example.com")

	runner.Run(context.Background(), uuid.New(), "url", makeRows(1))

	row := store.rows[0]
	if row.Status != bulk.RowSuccess {
		t.Errorf("status = %q, want success", row.Status)
	}
	if row.Message != "Pending Registration" {
		t.Errorf("message = %q, want Pending Registration", row.Message)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.sent))
	}
	if !notifier.sent[0].NewUser {
		t.Error("notification should use new-user framing")
	}
}

func TestRunnerCancellationBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	store := newFakeStore()
	issuer := &fakeIssuer{
		fn: func(_ badges.IssueCommand) (*badges.IssueResult, error) {
			cancel()
			return &badges.IssueResult{Badge: badges.Badge{ID: uuid.New()}}, nil
		},
	}
	notifier := &fakeNotifier{}
	runner := bulk.NewRunner(issuer, notifier, store, testLogger(), 10, "https://app.example.com")

	runner.Run(ctx, uuid.New(), "url", makeRows(25))

	if store.status != bulk.JobCancelled {
		t.Errorf("status = %q, want cancelled", store.status)
	}

	// the first chunk runs to its barrier even though cancellation
	// arrived mid-chunk
	if issuer.callCount() != 10 {
		t.Errorf("issue calls = %d, want 10", issuer.callCount())
	}
	if !store.completed {
		t.Error("job record never completed")
	}
}

func TestRunnerCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	issuer := &fakeIssuer{}
	runner := bulk.NewRunner(issuer, &fakeNotifier{}, store, testLogger(), 10, "https://app.example.com")

	runner.Run(ctx, uuid.New(), "url", makeRows(5))

	if issuer.callCount() != 0 {
		t.Errorf("issue calls = %d, want 0", issuer.callCount())
	}
	if store.status != bulk.JobCancelled {
		t.Errorf("status = %q, want cancelled", store.status)
	}
}
