package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phrazzld/visiondb/internal/domain"
	"github.com/phrazzld/visiondb/internal/platform/database"
	"github.com/phrazzld/visiondb/internal/store"
	"github.com/phrazzld/visiondb/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresStores runs the stores against a real PostgreSQL database.
// Every case runs inside a rolled back transaction.
func TestPostgresStores(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	users := database.NewUserStore(db, database.Postgres, nil)
	results := database.NewResultStore(db, database.Postgres, nil)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		txUsers := users.WithTx(tx)
		txResults := results.WithTx(tx)

		ana := domain.NewUser("Ana", "ana-integration@x.com", "pw1")
		require.NoError(t, txUsers.Create(ctx, ana))
		require.NotZero(t, ana.ID)

		got, err := txUsers.GetByEmail(ctx, ana.Email)
		require.NoError(t, err)
		assert.Equal(t, ana.Name, got.Name)

		exists, err := txUsers.EmailExists(ctx, ana.Email, 0)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, txResults.Save(ctx, &domain.VisualAcuityResult{UserID: ana.ID, RightEyeMaxLevel: 8}))
		require.NoError(t, txResults.Save(ctx, &domain.ColorVisionResult{UserID: ana.ID, CorrectAnswers: 9}))
		scored, err := domain.NewScoredResult(domain.VariantWatchDot, ana.ID, 12, 1, "steady")
		require.NoError(t, err)
		require.NoError(t, txResults.Save(ctx, scored))

		counts, err := txResults.CountByUser(ctx, ana.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[domain.VariantWatchDot])

		total, err := txResults.TotalByUser(ctx, ana.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		txUsers := users.WithTx(tx)
		require.NoError(t, txUsers.Create(ctx, domain.NewUser("Ana", "dup-integration@x.com", "pw1")))

		err := txUsers.Create(ctx, domain.NewUser("Ann", "dup-integration@x.com", "pw2"))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}
