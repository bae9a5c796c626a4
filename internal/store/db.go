package store

import (
	"context"
	"database/sql"
)

// DBTX is the executor surface the task and listing stores run their
// queries through. Both *sql.DB and *sql.Tx implement it, which is what
// lets WithTx hand back a transaction-scoped store without changing any
// query code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
