package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/visiondb/internal/domain"
	"github.com/phrazzld/visiondb/internal/platform/logger"
	"github.com/phrazzld/visiondb/internal/store"
)

// totalTestsQuery counts a user's rows across every variant table. Each
// branch binds the user ID separately.
const totalTestsQuery = `
	SELECT COUNT(*) AS total_tests
	FROM (
		SELECT test_id FROM blur_check WHERE user_id = ?
		UNION ALL
		SELECT test_id FROM color_vision WHERE user_id = ?
		UNION ALL
		SELECT test_id FROM contrast_vision WHERE user_id = ?
		UNION ALL
		SELECT test_id FROM visual_acuity WHERE user_id = ?
		UNION ALL
		SELECT test_id FROM watch_dot WHERE user_id = ?
	) AS all_tests
`

// testCountQuery yields one labelled row per variant table.
const testCountQuery = `
	SELECT 'visual_acuity' AS test_name, COUNT(*) AS test_count FROM visual_acuity WHERE user_id = ?
	UNION ALL
	SELECT 'color_vision', COUNT(*) FROM color_vision WHERE user_id = ?
	UNION ALL
	SELECT 'contrast_vision', COUNT(*) FROM contrast_vision WHERE user_id = ?
	UNION ALL
	SELECT 'blur_check', COUNT(*) FROM blur_check WHERE user_id = ?
	UNION ALL
	SELECT 'watch_dot', COUNT(*) FROM watch_dot WHERE user_id = ?
`

// SQLResultStore implements the store.ResultStore interface on top of a
// PostgreSQL or SQLite connection.
type SQLResultStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewResultStore creates a new SQL implementation of the ResultStore interface.
// If logger is nil, a default logger will be used.
func NewResultStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SQLResultStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLResultStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "result_store")),
	}
}

// Ensure SQLResultStore implements store.ResultStore interface
var _ store.ResultStore = (*SQLResultStore)(nil)

// WithTx implements store.ResultStore.WithTx
func (s *SQLResultStore) WithTx(tx *sql.Tx) store.ResultStore {
	return &SQLResultStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// Save implements store.ResultStore.Save
func (s *SQLResultStore) Save(ctx context.Context, result domain.Result) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		query string
		args  []any
		id    *int64
	)

	switch r := result.(type) {
	case *domain.VisualAcuityResult:
		query = `
			INSERT INTO visual_acuity (user_id, right_eye_max_level, right_eye_incorrect, left_eye_max_level, left_eye_incorrect, feedback)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING test_id
		`
		args = []any{r.UserID, r.RightEyeMaxLevel, r.RightEyeIncorrect, r.LeftEyeMaxLevel, r.LeftEyeIncorrect, r.Feedback}
		id = &r.ID
	case *domain.ColorVisionResult:
		query = `
			INSERT INTO color_vision (user_id, correct_answers, incorrect_answers, feedback)
			VALUES (?, ?, ?, ?)
			RETURNING test_id
		`
		args = []any{r.UserID, r.CorrectAnswers, r.IncorrectAnswers, r.Feedback}
		id = &r.ID
	case *domain.ScoredResult:
		if !r.Kind.Scored() {
			return store.NewStoreError(string(r.Kind), "save", "not a scored variant", store.ErrInvalidEntity)
		}
		// The table name comes from the fixed variant set, never from input.
		query = fmt.Sprintf(`
			INSERT INTO %s (user_id, score, incorrect_answers, feedback)
			VALUES (?, ?, ?, ?)
			RETURNING test_id
		`, r.Kind)
		args = []any{r.UserID, r.Score, r.IncorrectAnswers, r.Feedback}
		id = &r.ID
	default:
		return store.NewStoreError("result", "save", fmt.Sprintf("unsupported result type %T", result), store.ErrInvalidEntity)
	}

	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...).Scan(id); err != nil {
		log.Error("failed to save test result",
			slog.String("variant", string(result.Variant())),
			slog.Int64("user_id", result.Owner()),
			slog.String("error", DriverDetail(err)))
		return MapError(err)
	}

	log.Info("test result saved",
		slog.String("variant", string(result.Variant())),
		slog.Int64("user_id", result.Owner()),
		slog.Int64("test_id", *id))
	return nil
}

// TotalByUser implements store.ResultStore.TotalByUser
func (s *SQLResultStore) TotalByUser(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(totalTestsQuery),
		userID, userID, userID, userID, userID).Scan(&total)
	if err != nil {
		log.Error("failed to count total tests",
			slog.Int64("user_id", userID),
			slog.String("error", DriverDetail(err)))
		return 0, MapError(err)
	}

	return total, nil
}

// CountByUser implements store.ResultStore.CountByUser
func (s *SQLResultStore) CountByUser(ctx context.Context, userID int64) (domain.TestCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(testCountQuery),
		userID, userID, userID, userID, userID)
	if err != nil {
		log.Error("failed to count tests per variant",
			slog.Int64("user_id", userID),
			slog.String("error", DriverDetail(err)))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	counts := make(domain.TestCounts, len(domain.Variants))
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			log.Error("failed to scan test count", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		counts[domain.Variant(name)] = count
	}
	if err := rows.Err(); err != nil {
		log.Error("failed iterating test counts", slog.String("error", DriverDetail(err)))
		return nil, MapError(err)
	}

	return counts, nil
}

// DeleteByUser implements store.ResultStore.DeleteByUser
func (s *SQLResultStore) DeleteByUser(ctx context.Context, userID int64, variants ...domain.Variant) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, v := range variants {
		if !v.IsValid() {
			return store.NewStoreError(string(v), "delete", "unknown variant", store.ErrInvalidEntity)
		}

		query := s.dialect.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE user_id = ?`, v))
		result, err := s.db.ExecContext(ctx, query, userID)
		if err != nil {
			log.Error("failed to delete test results",
				slog.String("variant", string(v)),
				slog.Int64("user_id", userID),
				slog.String("error", DriverDetail(err)))
			return MapError(err)
		}

		if n, err := result.RowsAffected(); err == nil {
			log.Debug("deleted test results",
				slog.String("variant", string(v)),
				slog.Int64("user_id", userID),
				slog.Int64("rows_affected", n))
		}
	}

	return nil
}
