package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/visiondb/internal/domain"
	"github.com/phrazzld/visiondb/internal/platform/logger"
	"github.com/phrazzld/visiondb/internal/redact"
	"github.com/phrazzld/visiondb/internal/store"
)

// SQLUserStore implements the store.UserStore interface on top of a
// PostgreSQL or SQLite connection.
type SQLUserStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewUserStore creates a new SQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewUserStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *SQLUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLUserStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

// Ensure SQLUserStore implements store.UserStore interface
var _ store.UserStore = (*SQLUserStore)(nil)

// DB returns the connection or transaction the store runs on.
func (s *SQLUserStore) DB() store.DBTX {
	return s.db
}

// WithTx implements store.UserStore.WithTx
func (s *SQLUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &SQLUserStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// Create implements store.UserStore.Create
func (s *SQLUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		INSERT INTO users (Name, Email, Password)
		VALUES (?, ?, ?)
		RETURNING user_id
	`)

	err := s.db.QueryRowContext(ctx, query, user.Name, user.Email, user.Password).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("unique constraint rejected user email",
				slog.String("email", redact.Email(user.Email)))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to insert user",
			slog.String("error", DriverDetail(err)),
			slog.String("email", redact.Email(user.Email)))
		return MapError(err)
	}

	log.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("email", redact.Email(user.Email)))
	return nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *SQLUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := s.dialect.Rebind(`
		SELECT user_id, Name, Email, Password
		FROM users
		WHERE Email = ?
	`)
	return s.getOne(ctx, query, email)
}

// GetByID implements store.UserStore.GetByID
func (s *SQLUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := s.dialect.Rebind(`
		SELECT user_id, Name, Email, Password
		FROM users
		WHERE user_id = ?
	`)
	return s.getOne(ctx, query, id)
}

func (s *SQLUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", DriverDetail(err)))
		return nil, MapError(err)
	}

	return &user, nil
}

// EmailExists implements store.UserStore.EmailExists
func (s *SQLUserStore) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.dialect.Rebind(`
		SELECT COUNT(*)
		FROM users
		WHERE Email = ? AND user_id <> ?
	`)

	var n int
	if err := s.db.QueryRowContext(ctx, query, email, excludeID).Scan(&n); err != nil {
		log.Error("failed to check email",
			slog.String("error", DriverDetail(err)),
			slog.String("email", redact.Email(email)))
		return false, MapError(err)
	}

	return n > 0, nil
}

// UpdateProfile implements store.UserStore.UpdateProfile
func (s *SQLUserStore) UpdateProfile(ctx context.Context, id int64, name, email string) error {
	query := s.dialect.Rebind(`UPDATE users SET Name = ?, Email = ? WHERE user_id = ?`)
	return s.exec(ctx, "update profile", id, query, name, email, id)
}

// UpdatePassword implements store.UserStore.UpdatePassword
func (s *SQLUserStore) UpdatePassword(ctx context.Context, id int64, password string) error {
	query := s.dialect.Rebind(`UPDATE users SET Password = ? WHERE user_id = ?`)
	return s.exec(ctx, "update password", id, query, password, id)
}

// Delete implements store.UserStore.Delete
func (s *SQLUserStore) Delete(ctx context.Context, id int64) error {
	query := s.dialect.Rebind(`DELETE FROM users WHERE user_id = ?`)
	return s.exec(ctx, "delete", id, query, id)
}

func (s *SQLUserStore) exec(ctx context.Context, op string, id int64, query string, args ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("unique constraint rejected user update",
				slog.String("operation", op),
				slog.Int64("user_id", id))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("user statement failed",
			slog.String("operation", op),
			slog.String("error", DriverDetail(err)),
			slog.Int64("user_id", id))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err == nil {
		log.Debug("user statement executed",
			slog.String("operation", op),
			slog.Int64("user_id", id),
			slog.Int64("rows_affected", rows))
	}
	return nil
}
