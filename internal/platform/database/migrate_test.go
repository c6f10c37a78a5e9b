package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/visiondb/internal/domain"
	"github.com/phrazzld/visiondb/internal/platform/database"
	"github.com/phrazzld/visiondb/internal/platform/logger"
	"github.com/phrazzld/visiondb/internal/testdb"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteTableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db := testdb.OpenSQLite(t)
	buf, log := logger.NewTestLogger()

	statuses, err := database.MigrationStatus(ctx, db, database.SQLite)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.Equal(t, goose.StateApplied, s.State, "OpenSQLite applies every migration")
	}

	require.NoError(t, database.Migrate(ctx, db, database.SQLite, database.MigrateReset, log))
	assert.False(t, sqliteTableExists(t, db, "users"), "reset drops the users table")

	statuses, err = database.MigrationStatus(ctx, db, database.SQLite)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.Equal(t, goose.StatePending, s.State)
	}

	require.NoError(t, database.Migrate(ctx, db, database.SQLite, database.MigrateUp, log))
	assert.True(t, sqliteTableExists(t, db, "users"))
	for _, v := range domain.Variants {
		assert.True(t, sqliteTableExists(t, db, string(v)), "table %s should exist after migrating up", v)
	}

	require.NoError(t, database.Migrate(ctx, db, database.SQLite, database.MigrateDown, log))
	assert.False(t, sqliteTableExists(t, db, string(domain.VariantWatchDot)), "down rolls back the latest migration")
	assert.True(t, sqliteTableExists(t, db, "users"))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	var completed int
	for _, e := range entries {
		if e["msg"] == "migration operation completed" {
			completed++
			assert.NotEmpty(t, e["correlation_id"])
		}
	}
	assert.Equal(t, 3, completed)
}

func TestMigrateUnknownCommand(t *testing.T) {
	db := testdb.OpenSQLite(t)
	err := database.Migrate(context.Background(), db, database.SQLite, "sideways", nil)
	assert.ErrorContains(t, err, "unknown migration command")
}
