package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the processing state of a retrieval task.
type TaskStatus string

// Possible task status values. A task is created pending, moved to
// in_progress by the queue worker, and ends in exactly one of the two
// terminal states.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal reports whether the status permits no further transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskName        = errors.New("task name cannot be empty")
	ErrTaskCompletedAtState = errors.New("completed_at must be set exactly when status is completed")
)

// Task represents one named data-retrieval request and its lifecycle
// record. The per-source filters are independently typed; a nil filter
// means the enabled source is fetched unconstrained.
type Task struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Status         TaskStatus     `json:"status"`
	SourceAEnabled bool           `json:"source_a_enabled"`
	SourceBEnabled bool           `json:"source_b_enabled"`
	SourceAFilter  *SourceAFilter `json:"source_a_filters,omitempty"`
	SourceBFilter  *SourceBFilter `json:"source_b_filters,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
}

// NewTask creates a new Task in pending status with the given name,
// source toggles and optional per-source filters. It generates a new
// UUID for the task ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewTask(
	name string,
	sourceAEnabled, sourceBEnabled bool,
	sourceAFilter *SourceAFilter,
	sourceBFilter *SourceBFilter,
) (*Task, error) {
	t := &Task{
		ID:             uuid.New(),
		Name:           name,
		Status:         TaskStatusPending,
		SourceAEnabled: sourceAEnabled,
		SourceBEnabled: sourceBEnabled,
		SourceAFilter:  sourceAFilter,
		SourceBFilter:  sourceBFilter,
		CreatedAt:      time.Now().UTC(),
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	// completed_at is set if and only if the task completed successfully.
	// A failed task keeps a NULL completion time.
	if (t.CompletedAt != nil) != (t.Status == TaskStatusCompleted) {
		return ErrTaskCompletedAtState
	}

	return nil
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}
