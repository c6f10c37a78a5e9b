package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/visiondb/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	if IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}

	if IsNotNullViolation(err) {
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}

	return err
}

// IsUniqueViolation checks if the given error is a unique constraint
// violation in either supported dialect.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"))
	}

	return false
}

// IsNotNullViolation checks if the given error is a not null constraint
// violation in either supported dialect.
func IsNotNullViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == notNullViolationCode
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_NOTNULL
	}

	return false
}

// DriverDetail renders the driver-specific code of err next to its
// message, for diagnostics. Errors without a driver code are returned as is.
func DriverDetail(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("SQLState: %s, Msg: %s", pgErr.Code, pgErr.Message)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return fmt.Sprintf("Errno: %d, Msg: %s", liteErr.Code(), liteErr.Error())
	}

	return err.Error()
}
