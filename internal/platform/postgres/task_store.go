// Package postgres implements the store contracts on PostgreSQL via the
// pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/platform/logger"
	"github.com/proplane/estatehub-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{
		db: db,
	}
}

// WithTx returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

// Create saves a new task to the database.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	filtersA, err := marshalFilter(task.SourceAFilter)
	if err != nil {
		return fmt.Errorf("failed to encode source A filter: %w", err)
	}
	filtersB, err := marshalFilter(task.SourceBFilter)
	if err != nil {
		return fmt.Errorf("failed to encode source B filter: %w", err)
	}

	query := `
		INSERT INTO tasks (id, name, status, source_a_enabled, source_b_enabled,
			source_a_filters, source_b_filters, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.Name,
		task.Status,
		task.SourceAEnabled,
		task.SourceBEnabled,
		filtersA,
		filtersB,
		task.CreatedAt,
		task.CompletedAt,
	)

	if err != nil {
		log.Error("failed to save task",
			"task_id", task.ID,
			"error", err)
		return store.NewStoreError("task", "create", "failed to save task", MapError(err))
	}

	return nil
}

// GetByID retrieves a task by its unique ID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, name, status, source_a_enabled, source_b_enabled,
			source_a_filters, source_b_filters, created_at, completed_at
		FROM tasks
		WHERE id = $1
	`

	row := s.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "failed to load task", err)
	}

	return task, nil
}

// List retrieves all tasks ordered by creation time.
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, name, status, source_a_enabled, source_b_enabled,
			source_a_filters, source_b_filters, created_at, completed_at
		FROM tasks
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task row", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "error iterating task rows", err)
	}

	return tasks, nil
}

// UpdateStatus updates a task's status and completion timestamp.
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.TaskStatus,
	completedAt *time.Time,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, completed_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		log.Error("failed to update task status",
			"task_id", id,
			"status", status,
			"error", err)
		return store.NewStoreError("task", "update_status", "failed to update task status", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task. The listings foreign key is declared ON DELETE
// CASCADE, so the task's listings go with it.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			"task_id", id,
			"error", err)
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row, decoding the nullable JSONB filter columns.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		filtersA    []byte
		filtersB    []byte
		completedAt sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Status,
		&task.SourceAEnabled,
		&task.SourceBEnabled,
		&filtersA,
		&filtersB,
		&task.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}

	if len(filtersA) > 0 {
		task.SourceAFilter = &domain.SourceAFilter{}
		if err := json.Unmarshal(filtersA, task.SourceAFilter); err != nil {
			return nil, fmt.Errorf("failed to decode source A filter: %w", err)
		}
	}

	if len(filtersB) > 0 {
		task.SourceBFilter = &domain.SourceBFilter{}
		if err := json.Unmarshal(filtersB, task.SourceBFilter); err != nil {
			return nil, fmt.Errorf("failed to decode source B filter: %w", err)
		}
	}

	return &task, nil
}

// marshalFilter encodes a filter for the JSONB column, keeping NULL for
// an absent filter rather than the JSON literal "null".
func marshalFilter(filter any) ([]byte, error) {
	switch f := filter.(type) {
	case *domain.SourceAFilter:
		if f == nil {
			return nil, nil
		}
	case *domain.SourceBFilter:
		if f == nil {
			return nil, nil
		}
	}
	return json.Marshal(filter)
}
