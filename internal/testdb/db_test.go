package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/visiondb/internal/platform/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("VISION_TEST_DB_URL", "")
	assert.Empty(t, GetTestDatabaseURL())
	assert.False(t, IsIntegrationTestEnvironment())

	t.Setenv("VISION_TEST_DB_URL", "postgres://b@localhost/vision")
	assert.Equal(t, "postgres://b@localhost/vision", GetTestDatabaseURL())

	t.Setenv("DATABASE_URL", "postgres://a@localhost/vision")
	assert.Equal(t, "postgres://a@localhost/vision", GetTestDatabaseURL(), "DATABASE_URL takes precedence")
	assert.True(t, IsIntegrationTestEnvironment())
}

func TestOpenSQLiteIsMigrated(t *testing.T) {
	db := OpenSQLite(t)

	for _, table := range []string{"users", "visual_acuity", "color_vision", "contrast_vision", "blur_check", "watch_dot"} {
		var n int
		err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
		require.NoError(t, err, "table %s should exist", table)
		assert.Zero(t, n)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db := OpenSQLite(t)

	WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := tx.ExecContext(context.Background(),
			"INSERT INTO watch_dot (user_id, score, incorrect_answers, feedback) VALUES (?, ?, ?, ?)",
			int64(9), 10, 1, "ok")
		require.NoError(t, err)
	})

	assert.Zero(t, CountRows(t, db, database.SQLite, "watch_dot", 9), "insert should be rolled back")
}
