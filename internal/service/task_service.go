// Package service implements the submission-side operations over tasks
// and their listings. The queue worker owns everything after submission.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/analytics"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/store"
	"github.com/proplane/estatehub-api/internal/task"
)

// TaskEnqueuer is the capability the service needs from the task queue.
type TaskEnqueuer interface {
	Enqueue(req task.Request) error
}

// SubmitParams carries a task creation request into the service.
type SubmitParams struct {
	Name           string
	SourceAEnabled bool
	SourceBEnabled bool
	SourceAFilter  *domain.SourceAFilter
	SourceBFilter  *domain.SourceBFilter
}

// AnalyticsReport is the analytics body for a completed task.
type AnalyticsReport struct {
	TaskID    uuid.UUID         `json:"task_id"`
	Count     int               `json:"count"`
	Analytics analytics.Summary `json:"analytics"`
}

// TaskService provides task submission, lookup, deletion and the
// read-side listing and analytics operations.
type TaskService interface {
	// Submit creates a new pending task and enqueues it for processing.
	// It returns before processing starts.
	Submit(ctx context.Context, params SubmitParams) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves all tasks.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// DeleteTask removes a task and all its listings, returning the
	// deleted task record.
	DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetListings queries a completed task's listings.
	// Returns ErrTaskNotCompleted for a task in any other state.
	GetListings(ctx context.Context, id uuid.UUID, query store.ListingQuery) ([]*domain.Listing, error)

	// GetAnalytics aggregates a completed task's full listing set.
	// Returns ErrTaskNotCompleted for a task in any other state.
	GetAnalytics(ctx context.Context, id uuid.UUID) (*AnalyticsReport, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks    store.TaskStore
	listings store.ListingStore
	queue    TaskEnqueuer
	db       *sql.DB
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService. The db handle scopes
// multi-store operations to one transaction; a nil handle runs them
// against the root stores directly.
func NewTaskService(
	tasks store.TaskStore,
	listings store.ListingStore,
	queue TaskEnqueuer,
	db *sql.DB,
	logger *slog.Logger,
) TaskService {
	return &taskServiceImpl{
		tasks:    tasks,
		listings: listings,
		queue:    queue,
		db:       db,
		logger:   logger,
	}
}

// Submit creates a new pending task and enqueues it for processing.
func (s *taskServiceImpl) Submit(ctx context.Context, params SubmitParams) (*domain.Task, error) {
	t, err := domain.NewTask(
		params.Name,
		params.SourceAEnabled,
		params.SourceBEnabled,
		params.SourceAFilter,
		params.SourceBFilter,
	)
	if err != nil {
		return nil, newTaskServiceError("submit", "invalid task", err)
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, newTaskServiceError("submit", "failed to create task", err)
	}

	if err := s.queue.Enqueue(task.Request{TaskID: t.ID, EnqueuedAt: time.Now().UTC()}); err != nil {
		// The record exists but will never be picked up (queue closed
		// during shutdown). Surface the error; the task stays pending.
		s.logger.Error("failed to enqueue task", "task_id", t.ID, "error", err)
		return nil, newTaskServiceError("submit", "failed to enqueue task", err)
	}

	s.logger.Info("task submitted",
		"task_id", t.ID,
		"name", t.Name,
		"source_a_enabled", t.SourceAEnabled,
		"source_b_enabled", t.SourceBEnabled)

	return t, nil
}

// GetTask retrieves a task by its ID.
func (s *taskServiceImpl) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newTaskServiceError("get", "failed to load task", err)
	}
	return t, nil
}

// ListTasks retrieves all tasks.
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, newTaskServiceError("list", "failed to list tasks", err)
	}
	return tasks, nil
}

// DeleteTask removes a task and all its listings in one transaction.
// Listings go first; the task row's cascade constraint is a backstop,
// not the mechanism.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newTaskServiceError("delete", "failed to load task", err)
	}

	err = s.inTransaction(ctx, func(ctx context.Context, tasks store.TaskStore, listings store.ListingStore) error {
		if err := listings.DeleteByTask(ctx, id); err != nil {
			return err
		}
		return tasks.Delete(ctx, id)
	})
	if err != nil {
		return nil, newTaskServiceError("delete", "failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	return t, nil
}

// inTransaction runs fn over transaction-scoped store derivatives when
// the service owns a database handle, and over the root stores when it
// does not.
func (s *taskServiceImpl) inTransaction(
	ctx context.Context,
	fn func(ctx context.Context, tasks store.TaskStore, listings store.ListingStore) error,
) error {
	if s.db == nil {
		return fn(ctx, s.tasks, s.listings)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.tasks.WithTx(tx), s.listings.WithTx(tx))
	})
}

// GetListings queries a completed task's listings.
func (s *taskServiceImpl) GetListings(
	ctx context.Context,
	id uuid.UUID,
	query store.ListingQuery,
) ([]*domain.Listing, error) {
	if err := s.requireCompleted(ctx, id); err != nil {
		return nil, err
	}

	listings, err := s.listings.QueryByTask(ctx, id, query)
	if err != nil {
		return nil, newTaskServiceError("get_listings", "failed to query listings", err)
	}
	return listings, nil
}

// GetAnalytics aggregates a completed task's full listing set.
func (s *taskServiceImpl) GetAnalytics(ctx context.Context, id uuid.UUID) (*AnalyticsReport, error) {
	if err := s.requireCompleted(ctx, id); err != nil {
		return nil, err
	}

	listings, err := s.listings.ListAllByTask(ctx, id)
	if err != nil {
		return nil, newTaskServiceError("get_analytics", "failed to load listings", err)
	}

	return &AnalyticsReport{
		TaskID:    id,
		Count:     len(listings),
		Analytics: analytics.Aggregate(listings),
	}, nil
}

// requireCompleted enforces the read-side precondition that listing and
// analytics reads only apply to completed tasks.
func (s *taskServiceImpl) requireCompleted(ctx context.Context, id uuid.UUID) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return newTaskServiceError("precondition", "failed to load task", err)
	}

	if t.Status != domain.TaskStatusCompleted {
		return ErrTaskNotCompleted
	}

	return nil
}
