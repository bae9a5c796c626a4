package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/proplane/estatehub-api/internal/platform/logger"
	"github.com/proplane/estatehub-api/internal/store"
)

// defaultQueryLimit caps listing reads when the caller supplies no limit.
const defaultQueryLimit = 100

// PostgresListingStore implements the store.ListingStore interface using PostgreSQL.
type PostgresListingStore struct {
	db store.DBTX

	// sqlDB is set on the root store so CreateBulk can open its own
	// transaction. It is nil on WithTx derivatives, which run inside the
	// caller's transaction instead.
	sqlDB *sql.DB
}

// NewPostgresListingStore creates a new PostgresListingStore.
func NewPostgresListingStore(db *sql.DB) *PostgresListingStore {
	return &PostgresListingStore{
		db:    db,
		sqlDB: db,
	}
}

// WithTx returns a new ListingStore instance that uses the provided transaction.
func (s *PostgresListingStore) WithTx(tx *sql.Tx) store.ListingStore {
	return &PostgresListingStore{db: tx}
}

// CreateBulk inserts the full listing set for one task. On the root store
// the inserts run inside one transaction so a mid-batch failure leaves no
// partial listing set behind; within an existing transaction the caller's
// transaction provides that guarantee.
func (s *PostgresListingStore) CreateBulk(ctx context.Context, listings []*domain.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	for _, l := range listings {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
	}

	if s.sqlDB == nil {
		return s.insertAll(ctx, s.db, listings)
	}

	return store.RunInTransaction(ctx, s.sqlDB, func(ctx context.Context, tx *sql.Tx) error {
		return s.insertAll(ctx, tx, listings)
	})
}

// insertAll writes every listing through the given executor.
func (s *PostgresListingStore) insertAll(ctx context.Context, db store.DBTX, listings []*domain.Listing) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO listings (id, property_id, task_id, data_source, location,
			property_type, price, bedrooms, bathrooms, square_feet, listing_date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return store.NewStoreError("listing", "create_bulk", "failed to prepare insert", MapError(err))
	}
	defer func() { _ = stmt.Close() }()

	for _, l := range listings {
		_, err := stmt.ExecContext(ctx,
			l.ID,
			l.PropertyID,
			l.TaskID,
			l.DataSource,
			l.Location,
			l.PropertyType,
			l.Price,
			l.Bedrooms,
			l.Bathrooms,
			l.SquareFeet,
			l.ListingDate,
			nullableString(l.Description),
		)
		if err != nil {
			log.Error("failed to insert listing",
				"listing_id", l.ID,
				"task_id", l.TaskID,
				"error", err)
			// A broken task reference means the task was deleted while
			// its listings were being written.
			if IsForeignKeyViolation(err) {
				return store.NewStoreError(
					"listing", "create_bulk", "task no longer exists", store.ErrTaskNotFound)
			}
			return store.NewStoreError("listing", "create_bulk", "failed to insert listing", MapError(err))
		}
	}

	return nil
}

// QueryByTask retrieves a task's listings matching the query.
func (s *PostgresListingStore) QueryByTask(
	ctx context.Context,
	taskID uuid.UUID,
	query store.ListingQuery,
) ([]*domain.Listing, error) {
	log := logger.FromContext(ctx)

	sqlQuery := `
		SELECT id, property_id, task_id, data_source, location,
			property_type, price, bedrooms, bathrooms, square_feet, listing_date, description
		FROM listings
		WHERE task_id = $1
	`
	args := []any{taskID}

	if query.PropertyType != "" {
		args = append(args, query.PropertyType)
		sqlQuery += fmt.Sprintf(" AND property_type = $%d", len(args))
	}
	if query.MinPrice != nil {
		args = append(args, *query.MinPrice)
		sqlQuery += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if query.MaxPrice != nil {
		args = append(args, *query.MaxPrice)
		sqlQuery += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if query.Location != "" {
		args = append(args, "%"+query.Location+"%")
		sqlQuery += fmt.Sprintf(" AND location ILIKE $%d", len(args))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	args = append(args, limit)
	sqlQuery += fmt.Sprintf(" ORDER BY property_id ASC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		log.Error("failed to query listings",
			"task_id", taskID,
			"error", err)
		return nil, store.NewStoreError("listing", "query", "failed to query listings", MapError(err))
	}

	return scanListings(rows)
}

// ListAllByTask retrieves every listing belonging to the task.
func (s *PostgresListingStore) ListAllByTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Listing, error) {
	log := logger.FromContext(ctx)

	sqlQuery := `
		SELECT id, property_id, task_id, data_source, location,
			property_type, price, bedrooms, bathrooms, square_feet, listing_date, description
		FROM listings
		WHERE task_id = $1
		ORDER BY property_id ASC
	`

	rows, err := s.db.QueryContext(ctx, sqlQuery, taskID)
	if err != nil {
		log.Error("failed to list listings for task",
			"task_id", taskID,
			"error", err)
		return nil, store.NewStoreError("listing", "list_all", "failed to query listings", MapError(err))
	}

	return scanListings(rows)
}

// scanListings drains and closes the row set.
func scanListings(rows *sql.Rows) ([]*domain.Listing, error) {
	defer func() { _ = rows.Close() }()

	var listings []*domain.Listing
	for rows.Next() {
		var (
			l           domain.Listing
			description sql.NullString
		)
		err := rows.Scan(
			&l.ID,
			&l.PropertyID,
			&l.TaskID,
			&l.DataSource,
			&l.Location,
			&l.PropertyType,
			&l.Price,
			&l.Bedrooms,
			&l.Bathrooms,
			&l.SquareFeet,
			&l.ListingDate,
			&description,
		)
		if err != nil {
			return nil, store.NewStoreError("listing", "scan", "failed to scan listing row", err)
		}
		l.Description = description.String
		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("listing", "scan", "error iterating listing rows", err)
	}

	return listings, nil
}

// DeleteByTask removes all listings belonging to the given task. Deleting
// zero rows is not an error; a failed task legitimately has no listings.
func (s *PostgresListingStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	log := logger.FromContext(ctx)

	_, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE task_id = $1`, taskID)
	if err != nil {
		log.Error("failed to delete listings for task",
			"task_id", taskID,
			"error", err)
		return store.NewStoreError("listing", "delete_by_task", "failed to delete listings", MapError(err))
	}

	return nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
