// Package metrics exposes the Prometheus collectors for the task pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TasksProcessed counts tasks that reached a terminal state, by status.
	TasksProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "estatehub_tasks_processed_total",
		Help: "Tasks driven to a terminal state, labelled by outcome",
	}, []string{"status"})

	// FetchDuration observes how long a single source fetch takes.
	FetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "estatehub_source_fetch_duration_seconds",
		Help: "Duration of one adapter fetch, labelled by source",
	}, []string{"source"})

	// ListingsInserted counts listings persisted across all tasks.
	ListingsInserted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "estatehub_listings_inserted_total",
		Help: "Listings bulk-inserted by completed tasks",
	})

	// QueueDepth tracks the number of task requests waiting in the queue.
	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "estatehub_queue_depth",
		Help: "Task requests currently waiting for the worker",
	})
)

func init() {
	prometheus.MustRegister(
		TasksProcessed,
		FetchDuration,
		ListingsInserted,
		QueueDepth,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
