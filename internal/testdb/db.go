package testdb

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/visiondb/internal/config"
	"github.com/phrazzld/visiondb/internal/platform/database"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// OpenSQLite returns a migrated SQLite database stored in a temporary
// directory owned by t. The database is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		URL:            filepath.Join(t.TempDir(), "vision.db"),
		MaxOpenConns:   4,
		MaxIdleConns:   4,
		ConnectTimeout: TestTimeout,
	}

	return open(t, cfg)
}

// GetTestDBWithT returns a migrated PostgreSQL database for integration tests.
// It skips the test if no database URL is set.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or VISION_TEST_DB_URL not set - skipping integration test")
	}

	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		URL:             dbURL,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  TestTimeout,
	}

	return open(t, cfg)
}

func open(t *testing.T, cfg config.DatabaseConfig) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, dialect, err := database.Open(ctx, cfg, nil)
	require.NoError(t, err, "Failed to open test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	require.NoError(t, database.Migrate(ctx, db, dialect, database.MigrateUp, nil), "Failed to run migrations")

	return db
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes. This ensures test isolation and prevents side effects.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// CountRows returns the number of rows in table owned by userID.
func CountRows(t *testing.T, db *sql.DB, dialect database.Dialect, table string, userID int64) int {
	t.Helper()

	var n int
	query := dialect.Rebind("SELECT COUNT(*) FROM " + table + " WHERE user_id = ?")
	err := db.QueryRow(query, userID).Scan(&n)
	require.NoError(t, err, "Failed to count rows in %s", table)
	return n
}
