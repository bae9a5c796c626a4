package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// The submission path creates, reads and deletes tasks; the queue worker
// is the only writer of status transitions after creation.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves all tasks ordered by creation time.
	List(ctx context.Context) ([]*domain.Task, error)

	// UpdateStatus updates a task's status and, for completed tasks, its
	// completion timestamp. completedAt must be non-nil exactly when the
	// status is completed. Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus, completedAt *time.Time) error

	// Delete removes a task row. Callers delete the task's listings first;
	// the schema's cascade only catches rows written concurrently.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
