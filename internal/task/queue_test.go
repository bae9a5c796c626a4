package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proplane/estatehub-api/internal/platform/metrics"
)

func newRequest() Request {
	return Request{TaskID: uuid.New(), EnqueuedAt: time.Now().UTC()}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()

	first := newRequest()
	second := newRequest()
	third := newRequest()

	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(second))
	require.NoError(t, q.Enqueue(third))
	assert.Equal(t, 3, q.Len())

	ctx := context.Background()
	for _, want := range []Request{first, second, third} {
		got, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want.TaskID, got.TaskID)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueProducersNeverBlock(t *testing.T) {
	q := NewQueue()

	// No consumer attached; a large burst of enqueues must still return
	// immediately.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			_ = q.Enqueue(newRequest())
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("enqueue blocked")
	}
	assert.Equal(t, 10000, q.Len())
}

func TestQueueDequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewQueue()
	want := newRequest()

	got := make(chan Request, 1)
	go func() {
		req, err := q.Dequeue(context.Background())
		if err == nil {
			got <- req
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Enqueue(want))

	select {
	case req := <-got:
		assert.Equal(t, want.TaskID, req.TaskID)
	case <-time.After(time.Second):
		t.Fatal("dequeue did not wake")
	}
}

func TestQueueDequeueContextCancel(t *testing.T) {
	q := NewQueue()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueueClose(t *testing.T) {
	q := NewQueue()
	queued := newRequest()
	require.NoError(t, q.Enqueue(queued))

	q.Close()

	// New enqueues are rejected, but what was queued still drains.
	assert.ErrorIs(t, q.Enqueue(newRequest()), ErrQueueClosed)

	req, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, queued.TaskID, req.TaskID)

	_, err = q.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueDepthGaugeTracksLen(t *testing.T) {
	q := NewQueue()

	require.NoError(t, q.Enqueue(newRequest()))
	require.NoError(t, q.Enqueue(newRequest()))
	require.NoError(t, q.Enqueue(newRequest()))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.QueueDepth))

	ctx := context.Background()
	_, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.QueueDepth))

	_, err = q.Dequeue(ctx)
	require.NoError(t, err)
	_, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.QueueDepth))
}
