package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/visiondb/internal/domain"
)

// ResultStore defines the interface for test result persistence.
// Results are append-only: there is no update, and rows are only removed
// in bulk when their owner's account is deleted.
type ResultStore interface {
	// Save appends a result to its variant table and sets its ID.
	// Returns ErrInvalidEntity for result types it cannot store.
	Save(ctx context.Context, result domain.Result) error

	// CountByUser returns one count per variant for the user, including
	// zero counts.
	CountByUser(ctx context.Context, userID int64) (domain.TestCounts, error)

	// TotalByUser returns the number of results the user has across all
	// variant tables.
	TotalByUser(ctx context.Context, userID int64) (int, error)

	// DeleteByUser removes the user's rows from the given variant tables,
	// in the order given.
	DeleteByUser(ctx context.Context, userID int64, variants ...domain.Variant) error

	// WithTx returns a new ResultStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ResultStore
}
