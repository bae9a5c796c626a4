// Package api provides HTTP handlers for the API.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/api/shared"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/platform/logger"
	"github.com/proplane/estatehub-api/internal/service"
	"github.com/proplane/estatehub-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests. It records the task and enqueues
// it for processing; the response carries the task in its pending state.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("failed to decode task creation request", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Debug("task creation request failed validation", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task name is required")
		return
	}

	created, err := h.taskService.Submit(r.Context(), service.SubmitParams{
		Name:           req.Name,
		SourceAEnabled: req.SourceAEnabled,
		SourceBEnabled: req.SourceBEnabled,
		SourceAFilter:  req.SourceAFilter,
		SourceBFilter:  req.SourceBFilter,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task created",
		slog.String("task_id", created.ID.String()),
		slog.String("name", created.Name))
	shared.RespondWithJSON(w, r, http.StatusAccepted, created)
}

// ListTasks handles GET /tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks: tasks,
		Count: len(tasks),
	})
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	t, err := h.taskService.GetTask(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, t)
}

// DeleteTask handles DELETE /tasks/{id} requests. The task and all listings
// it retrieved are removed; the response echoes the deleted task.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, ok := h.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	deleted, err := h.taskService.DeleteTask(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, deleted)
}

// GetTaskData handles GET /tasks/{id}/data requests. Listings are only
// available once the task has completed; until then the endpoint returns
// 400. Optional query parameters narrow the result set.
func (h *TaskHandler) GetTaskData(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	query, err := listingQueryFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	listings, err := h.taskService.GetListings(r.Context(), taskID, query)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if listings == nil {
		listings = []*domain.Listing{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskDataResponse{
		TaskID: taskID,
		Count:  len(listings),
		Data:   listings,
	})
}

// GetTaskAnalytics handles GET /tasks/{id}/analytics requests. Like the data
// endpoint it requires a completed task.
func (h *TaskHandler) GetTaskAnalytics(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.taskIDFromRequest(w, r)
	if !ok {
		return
	}

	report, err := h.taskService.GetAnalytics(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// taskIDFromRequest extracts and parses the {id} path parameter, writing a
// 400 response and returning ok=false when it is malformed.
func (h *TaskHandler) taskIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	taskID, err := uuid.Parse(raw)
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Debug("malformed task ID in request path", slog.String("raw_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(domain.ErrInvalidID))
		return uuid.Nil, false
	}
	return taskID, true
}

// listingQueryFromRequest builds a ListingQuery from the data endpoint's
// query parameters. Unset parameters leave their constraint open.
func listingQueryFromRequest(r *http.Request) (store.ListingQuery, error) {
	var query store.ListingQuery
	params := r.URL.Query()

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return query, fmt.Errorf("limit must be a positive integer")
		}
		query.Limit = limit
	}

	if raw := params.Get("min_price"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("min_price must be a number")
		}
		query.MinPrice = &minPrice
	}

	if raw := params.Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, fmt.Errorf("max_price must be a number")
		}
		query.MaxPrice = &maxPrice
	}

	query.PropertyType = params.Get("property_type")
	query.Location = params.Get("location")

	return query, nil
}
