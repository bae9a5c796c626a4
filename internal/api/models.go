package api

import (
	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
)

// Common request/response structures

// CreateTaskRequest defines the payload for the task submission endpoint.
// Filters are optional and only consulted for sources that are enabled.
type CreateTaskRequest struct {
	Name           string                `json:"name"             validate:"required,min=1,max=255"`
	SourceAEnabled bool                  `json:"source_a_enabled"`
	SourceBEnabled bool                  `json:"source_b_enabled"`
	SourceAFilter  *domain.SourceAFilter `json:"source_a_filters,omitempty"`
	SourceBFilter  *domain.SourceBFilter `json:"source_b_filters,omitempty"`
}

// TaskListResponse wraps the task collection returned by GET /tasks.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

// TaskDataResponse wraps the retrieved listings for a completed task.
type TaskDataResponse struct {
	TaskID uuid.UUID         `json:"task_id"`
	Count  int               `json:"count"`
	Data   []*domain.Listing `json:"data"`
}
