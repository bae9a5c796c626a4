// Package task contains the queue worker: the unbounded FIFO of pending
// task requests and the single-lane runner that drives each task through
// its lifecycle.
package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/platform/metrics"
)

// ErrQueueClosed is returned when enqueueing to or dequeuing from a
// closed queue.
var ErrQueueClosed = errors.New("task queue is closed")

// Request is one queued unit of work. Only the task ID travels through
// the queue; the worker re-reads the task record at admission time so a
// task deleted while waiting is simply skipped.
type Request struct {
	TaskID     uuid.UUID
	EnqueuedAt time.Time
}

// Queue is an unbounded FIFO of task requests with a single consumer.
// Producers never block: Enqueue appends and returns immediately
// regardless of how far behind the worker is.
type Queue struct {
	mu     sync.Mutex
	items  []Request
	wake   chan struct{}
	closed bool
}

// NewQueue creates an empty task queue.
func NewQueue() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
	}
}

// Enqueue appends a request to the queue.
// Returns ErrQueueClosed if the queue has been closed.
func (q *Queue) Enqueue(req Request) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, req)
	// Published under the lock so racing producers and the consumer
	// cannot report depths out of order.
	metrics.QueueDepth.Set(float64(len(q.items)))
	q.mu.Unlock()

	// Nudge the consumer without blocking the producer.
	select {
	case q.wake <- struct{}{}:
	default:
	}

	return nil
}

// Dequeue removes and returns the oldest request, blocking until one is
// available, the queue closes, or the context is cancelled.
func (q *Queue) Dequeue(ctx context.Context) (Request, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			req := q.items[0]
			q.items = q.items[1:]
			metrics.QueueDepth.Set(float64(len(q.items)))
			q.mu.Unlock()
			return req, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return Request{}, ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return Request{}, ctx.Err()
		case <-q.wake:
		}
	}
}

// Len reports the number of requests currently waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed. Requests already queued can still be
// dequeued; new enqueues are rejected.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}
