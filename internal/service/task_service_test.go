package service

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/store"
	"github.com/proplane/estatehub-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *memTaskStore) Create(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *memTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	completedAt *time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (s *memTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

type memListingStore struct {
	mu     sync.Mutex
	byTask map[uuid.UUID][]*domain.Listing
}

func newMemListingStore() *memListingStore {
	return &memListingStore{byTask: make(map[uuid.UUID][]*domain.Listing)}
}

func (s *memListingStore) CreateBulk(ctx context.Context, listings []*domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range listings {
		cp := *l
		s.byTask[l.TaskID] = append(s.byTask[l.TaskID], &cp)
	}
	return nil
}

func (s *memListingStore) QueryByTask(
	ctx context.Context,
	taskID uuid.UUID,
	query store.ListingQuery,
) ([]*domain.Listing, error) {
	return s.ListAllByTask(ctx, taskID)
}

func (s *memListingStore) ListAllByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Listing, 0, len(s.byTask[taskID]))
	for _, l := range s.byTask[taskID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memListingStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byTask, taskID)
	return nil
}

func (s *memListingStore) WithTx(tx *sql.Tx) store.ListingStore { return s }

// recordingQueue captures enqueued requests without a consumer.
type recordingQueue struct {
	mu       sync.Mutex
	requests []task.Request
	fail     error
}

func (q *recordingQueue) Enqueue(req task.Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.fail != nil {
		return q.fail
	}
	q.requests = append(q.requests, req)
	return nil
}

func newTestService() (TaskService, *memTaskStore, *memListingStore, *recordingQueue) {
	tasks := newMemTaskStore()
	listings := newMemListingStore()
	queue := &recordingQueue{}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewTaskService(tasks, listings, queue, nil, logger), tasks, listings, queue
}

func TestSubmit(t *testing.T) {
	svc, tasks, _, queue := newTestService()

	minPrice := 500000.0
	created, err := svc.Submit(context.Background(), SubmitParams{
		Name:           "priced sweep",
		SourceAEnabled: true,
		SourceAFilter:  &domain.SourceAFilter{MinPrice: &minPrice},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusPending, created.Status)

	stored, err := tasks.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)

	require.Len(t, queue.requests, 1)
	assert.Equal(t, created.ID, queue.requests[0].TaskID)
}

func TestSubmit_InvalidName(t *testing.T) {
	svc, _, _, queue := newTestService()

	_, err := svc.Submit(context.Background(), SubmitParams{Name: ""})
	assert.Error(t, err)
	assert.Empty(t, queue.requests)
}

func TestSubmit_EnqueueFailure(t *testing.T) {
	svc, _, _, queue := newTestService()
	queue.fail = task.ErrQueueClosed

	_, err := svc.Submit(context.Background(), SubmitParams{Name: "late task", SourceAEnabled: true})
	assert.Error(t, err)
}

func TestGetTask_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetTask(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	svc, tasks, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), SubmitParams{Name: "doomed", SourceAEnabled: true})
	require.NoError(t, err)

	deleted, err := svc.DeleteTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = tasks.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = svc.DeleteTask(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_RemovesOnlyItsListings(t *testing.T) {
	svc, tasks, listings, _ := newTestService()

	doomed, err := svc.Submit(context.Background(), SubmitParams{Name: "doomed", SourceAEnabled: true})
	require.NoError(t, err)
	survivor, err := svc.Submit(context.Background(), SubmitParams{Name: "survivor", SourceAEnabled: true})
	require.NoError(t, err)

	stored := []*domain.Listing{
		{
			ID: uuid.New(), PropertyID: "A-0001", TaskID: doomed.ID,
			DataSource: domain.SourceTagA, Location: "Austin", PropertyType: "House",
			Price: 500000, Bedrooms: 3, Bathrooms: 2, SquareFeet: 1800, ListingDate: "2024-04-02",
		},
		{
			ID: uuid.New(), PropertyID: "A-0002", TaskID: survivor.ID,
			DataSource: domain.SourceTagA, Location: "Denver", PropertyType: "Condo",
			Price: 350000, Bedrooms: 2, Bathrooms: 1, SquareFeet: 950, ListingDate: "2024-05-20",
		},
	}
	require.NoError(t, listings.CreateBulk(context.Background(), stored))

	_, err = svc.DeleteTask(context.Background(), doomed.ID)
	require.NoError(t, err)

	gone, err := listings.ListAllByTask(context.Background(), doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, gone, "deleted task's listings must be removed")

	kept, err := listings.ListAllByTask(context.Background(), survivor.ID)
	require.NoError(t, err)
	require.Len(t, kept, 1, "other tasks' listings must be untouched")
	assert.Equal(t, "A-0002", kept[0].PropertyID)

	_, err = tasks.GetByID(context.Background(), doomed.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestGetListings_Precondition(t *testing.T) {
	svc, tasks, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), SubmitParams{Name: "pending", SourceAEnabled: true})
	require.NoError(t, err)

	for _, status := range []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusInProgress,
		domain.TaskStatusFailed,
	} {
		require.NoError(t, tasks.UpdateStatus(context.Background(), created.ID, status, nil))
		_, err := svc.GetListings(context.Background(), created.ID, store.ListingQuery{})
		assert.ErrorIs(t, err, ErrTaskNotCompleted, "status %s", status)

		_, err = svc.GetAnalytics(context.Background(), created.ID)
		assert.ErrorIs(t, err, ErrTaskNotCompleted, "status %s", status)
	}
}

func TestGetAnalytics_EmptyCompletedTask(t *testing.T) {
	svc, tasks, _, _ := newTestService()

	created, err := svc.Submit(context.Background(), SubmitParams{Name: "empty"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, tasks.UpdateStatus(context.Background(), created.ID, domain.TaskStatusCompleted, &now))

	report, err := svc.GetAnalytics(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Count)
	assert.Empty(t, report.Analytics.AvgPriceByLocation)
	assert.Empty(t, report.Analytics.ListingsByMonth)
}

func TestGetAnalytics_CompletedTask(t *testing.T) {
	svc, tasks, listings, _ := newTestService()

	created, err := svc.Submit(context.Background(), SubmitParams{Name: "done", SourceAEnabled: true})
	require.NoError(t, err)

	stored := []*domain.Listing{
		{
			ID: uuid.New(), PropertyID: "A-0001", TaskID: created.ID,
			DataSource: domain.SourceTagA, Location: "Austin", PropertyType: "House",
			Price: 500000, Bedrooms: 3, Bathrooms: 2, SquareFeet: 1800, ListingDate: "2024-04-02",
		},
		{
			ID: uuid.New(), PropertyID: "B-0001", TaskID: created.ID,
			DataSource: domain.SourceTagB, Location: "Austin", PropertyType: "Condo",
			Price: 300000, Bedrooms: 1, Bathrooms: 1, SquareFeet: 800, ListingDate: "2024-05-11",
		},
	}
	require.NoError(t, listings.CreateBulk(context.Background(), stored))

	now := time.Now().UTC()
	require.NoError(t, tasks.UpdateStatus(context.Background(), created.ID, domain.TaskStatusCompleted, &now))

	report, err := svc.GetAnalytics(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count)
	assert.InDelta(t, 400000, report.Analytics.AvgPriceByLocation["Austin"], 0.001)
	assert.Equal(t, 1, report.Analytics.BedroomDistribution["1"])
	assert.Equal(t, 1, report.Analytics.BedroomDistribution["3"])
}
