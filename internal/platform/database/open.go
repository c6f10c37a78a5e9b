package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/visiondb/internal/config"
	"github.com/phrazzld/visiondb/internal/redact"
	_ "modernc.org/sqlite" // sqlite driver
)

// sqliteBusyTimeoutMS is applied to every SQLite connection so concurrent
// calls wait for the write lock instead of failing with SQLITE_BUSY.
const sqliteBusyTimeoutMS = 5000

// Open establishes a connection pool for cfg and verifies it with a ping
// bounded by cfg.ConnectTimeout. The caller owns the returned *sql.DB.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, Dialect, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect, err := ParseDialect(cfg.Driver)
	if err != nil {
		return nil, "", err
	}

	dsn := cfg.URL
	if dialect == SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database after ping failure",
				slog.String("error", closeErr.Error()))
		}
		return nil, "", fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	logger.Info("database connection established",
		slog.String("driver", string(dialect)),
		slog.String("url", redact.DatabaseURL(cfg.URL)))

	return db, dialect, nil
}

// sqliteDSN appends the busy timeout pragma unless the DSN already sets one.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", dsn, sep, sqliteBusyTimeoutMS)
}
