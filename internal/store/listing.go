package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
)

// ListingQuery narrows a listing read for one task. Nil/zero fields
// impose no constraint. Location matches as a case-insensitive substring.
type ListingQuery struct {
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	Location     string
	Limit        int
}

// ListingStore defines the interface for listing data persistence.
// Listings are only ever written in bulk by the queue worker and removed
// when their task is deleted; there is no single-row update surface.
type ListingStore interface {
	// CreateBulk inserts the full listing set for one task inside a single
	// transaction. Either every listing is persisted or none are.
	CreateBulk(ctx context.Context, listings []*domain.Listing) error

	// QueryByTask retrieves a task's listings matching the query.
	QueryByTask(ctx context.Context, taskID uuid.UUID, query ListingQuery) ([]*domain.Listing, error)

	// ListAllByTask retrieves every listing belonging to the task, with
	// no limit. The analytics aggregation needs the complete set.
	ListAllByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Listing, error)

	// DeleteByTask removes all listings belonging to the given task.
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error

	// WithTx returns a new ListingStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ListingStore
}
