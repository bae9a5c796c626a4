package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/platform/logger"
	"github.com/proplane/estatehub-api/internal/platform/metrics"
	"github.com/proplane/estatehub-api/internal/source"
	"github.com/proplane/estatehub-api/internal/store"
)

// SourceA is the capability the runner needs from the Source A adapter.
type SourceA interface {
	Fetch(ctx context.Context, filter *domain.SourceAFilter) ([]source.ARecord, error)
}

// SourceB is the capability the runner needs from the Source B adapter.
type SourceB interface {
	Fetch(ctx context.Context, filter *domain.SourceBFilter) ([]source.BRow, error)
}

// Runner owns the single processing lane. It dequeues requests one at a
// time and runs the full phase sequence for each before touching the
// next, so at most one task is ever between in_progress and a terminal
// state. Failures inside a task are converted to the failed status and
// never escape the loop; a hung source fetch stalls the lane, which is
// the accepted trade-off of this design.
type Runner struct {
	queue    *Queue
	tasks    store.TaskStore
	listings store.ListingStore
	sourceA  SourceA
	sourceB  SourceB
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a Runner over the given queue, stores and adapters.
func NewRunner(
	queue *Queue,
	tasks store.TaskStore,
	listings store.ListingStore,
	sourceA SourceA,
	sourceB SourceB,
	log *slog.Logger,
) *Runner {
	return &Runner{
		queue:    queue,
		tasks:    tasks,
		listings: listings,
		sourceA:  sourceA,
		sourceB:  sourceB,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Start launches the processing loop.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	go r.run(ctx)
}

// Stop cancels the processing loop and waits for the in-flight task, if
// any, to reach a terminal state. There is no per-task cancellation:
// once dequeued, a task runs to completion or failure.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}

// run is the single consumer lane.
func (r *Runner) run(ctx context.Context) {
	defer close(r.done)

	r.logger.Info("task runner started")

	for {
		req, err := r.queue.Dequeue(ctx)
		if err != nil {
			r.logger.Info("task runner stopping", "reason", err)
			return
		}

		// Processing deliberately ignores loop cancellation: a dequeued
		// task always reaches a terminal state.
		r.process(context.WithoutCancel(ctx), req)
	}
}

// process drives one task through admission, the in_progress transition,
// fetch, normalization, persistence and finalization.
func (r *Runner) process(ctx context.Context, req Request) {
	log := r.logger.With("task_id", req.TaskID)
	ctx = logger.WithLogger(ctx, log)

	// Admission: the task may have been deleted while queued. That is
	// not a task failure; there is no record left to mark.
	t, err := r.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Info("task deleted before processing, skipping")
			return
		}
		log.Error("failed to re-read task at admission", "error", err)
		r.markFailed(ctx, req.TaskID)
		return
	}

	if err := r.tasks.UpdateStatus(ctx, t.ID, domain.TaskStatusInProgress, nil); err != nil {
		log.Error("failed to transition task to in_progress", "error", err)
		r.markFailed(ctx, t.ID)
		return
	}

	log.Info("processing task", "name", t.Name, "queued_for", time.Since(req.EnqueuedAt))

	listings, err := r.collect(ctx, t)
	if err != nil {
		log.Error("task fetch failed", "error", err)
		r.markFailed(ctx, t.ID)
		return
	}

	// One transaction for the whole set: the task's listings are either
	// entirely present or entirely absent.
	if err := r.listings.CreateBulk(ctx, listings); err != nil {
		log.Error("failed to persist listings", "error", err)
		r.markFailed(ctx, t.ID)
		return
	}

	completedAt := time.Now().UTC()
	if err := r.tasks.UpdateStatus(ctx, t.ID, domain.TaskStatusCompleted, &completedAt); err != nil {
		log.Error("failed to finalize task as completed", "error", err)
		r.markFailed(ctx, t.ID)
		return
	}

	metrics.TasksProcessed.WithLabelValues(string(domain.TaskStatusCompleted)).Inc()
	metrics.ListingsInserted.Add(float64(len(listings)))
	log.Info("task completed", "listing_count", len(listings))
}

// collect fetches every enabled source and normalizes the results into
// one working collection. If either enabled source fails, the error
// propagates and nothing from the other source is kept.
func (r *Runner) collect(ctx context.Context, t *domain.Task) ([]*domain.Listing, error) {
	var listings []*domain.Listing

	if t.SourceAEnabled {
		timer := prometheus.NewTimer(metrics.FetchDuration.WithLabelValues(string(domain.SourceTagA)))
		records, err := r.sourceA.Fetch(ctx, t.SourceAFilter)
		timer.ObserveDuration()
		if err != nil {
			return nil, fmt.Errorf("source A fetch: %w", err)
		}

		for _, rec := range records {
			listings = append(listings, source.NormalizeARecord(t.ID, rec))
		}
		logger.FromContext(ctx).Debug("fetched source A", "count", len(records))
	}

	if t.SourceBEnabled {
		timer := prometheus.NewTimer(metrics.FetchDuration.WithLabelValues(string(domain.SourceTagB)))
		rows, err := r.sourceB.Fetch(ctx, t.SourceBFilter)
		timer.ObserveDuration()
		if err != nil {
			return nil, fmt.Errorf("source B fetch: %w", err)
		}

		for _, row := range rows {
			listings = append(listings, source.NormalizeBRow(t.ID, row))
		}
		logger.FromContext(ctx).Debug("fetched source B", "count", len(rows))
	}

	return listings, nil
}

// markFailed records the terminal failed status. A failed task never
// carries a completion time. Errors here are logged and swallowed; the
// loop must outlive any single task.
func (r *Runner) markFailed(ctx context.Context, taskID uuid.UUID) {
	if err := r.tasks.UpdateStatus(ctx, taskID, domain.TaskStatusFailed, nil); err != nil {
		logger.FromContext(ctx).Error("failed to mark task as failed", "error", err)
	}
	metrics.TasksProcessed.WithLabelValues(string(domain.TaskStatusFailed)).Inc()
}
