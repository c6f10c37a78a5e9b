package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database access layer.
// It is implemented by *sql.DB, *sql.Conn and *sql.Tx, so the same store
// code runs against the pool or inside the transaction of a single call.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
