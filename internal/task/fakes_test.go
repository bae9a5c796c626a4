package task

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/store"
)

// fakeTaskStore is an in-memory store.TaskStore for pipeline tests.
type fakeTaskStore struct {
	mu             sync.Mutex
	tasks          map[uuid.UUID]*domain.Task
	failUpdateOnce bool
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *fakeTaskStore) Create(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	completedAt *time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdateOnce {
		s.failUpdateOnce = false
		return errors.New("simulated status write failure")
	}
	t, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (s *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return s }

// fakeListingStore is an in-memory store.ListingStore. CreateBulk is
// all-or-nothing like the real transactional implementation.
type fakeListingStore struct {
	mu         sync.Mutex
	byTask     map[uuid.UUID][]*domain.Listing
	failCreate bool
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{byTask: make(map[uuid.UUID][]*domain.Listing)}
}

func (s *fakeListingStore) CreateBulk(ctx context.Context, listings []*domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return store.NewStoreError("listing", "create_bulk", "simulated insert failure", nil)
	}
	for _, l := range listings {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	for _, l := range listings {
		cp := *l
		s.byTask[l.TaskID] = append(s.byTask[l.TaskID], &cp)
	}
	return nil
}

func (s *fakeListingStore) QueryByTask(
	ctx context.Context,
	taskID uuid.UUID,
	query store.ListingQuery,
) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}

	var out []*domain.Listing
	for _, l := range s.byTask[taskID] {
		if query.PropertyType != "" && l.PropertyType != query.PropertyType {
			continue
		}
		if query.MinPrice != nil && l.Price < *query.MinPrice {
			continue
		}
		if query.MaxPrice != nil && l.Price > *query.MaxPrice {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeListingStore) ListAllByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Listing, 0, len(s.byTask[taskID]))
	for _, l := range s.byTask[taskID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeListingStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byTask, taskID)
	return nil
}

func (s *fakeListingStore) WithTx(tx *sql.Tx) store.ListingStore { return s }

func (s *fakeListingStore) count(taskID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byTask[taskID])
}
