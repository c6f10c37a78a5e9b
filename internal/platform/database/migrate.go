package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migration commands accepted by Migrate.
const (
	MigrateUp    = "up"
	MigrateDown  = "down"
	MigrateReset = "reset"
)

// MigrationsFS returns the embedded migration files for dialect.
func MigrationsFS(dialect Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+string(dialect))
}

// NewMigrator builds a goose provider over the embedded migrations for dialect.
func NewMigrator(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	fsys, err := MigrationsFS(dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s migrations: %w", dialect, err)
	}
	provider, err := goose.NewProvider(dialect.gooseDialect(), db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies (up), rolls back one (down) or rolls back every (reset)
// migration, logging each step under a shared correlation ID.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("correlation_id", uuid.New().String()),
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("dialect", string(dialect)),
	)

	provider, err := NewMigrator(db, dialect)
	if err != nil {
		return err
	}

	startTime := time.Now()
	log.Info("starting migration operation")

	var results []*goose.MigrationResult
	switch command {
	case MigrateUp:
		results, err = provider.Up(ctx)
	case MigrateDown:
		var result *goose.MigrationResult
		result, err = provider.Down(ctx)
		if result != nil {
			results = append(results, result)
		}
	case MigrateReset:
		results, err = provider.DownTo(ctx, 0)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	for _, r := range results {
		log.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
			slog.String("direction", r.Direction),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}

	if err != nil {
		log.Error("migration operation failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration operation completed",
		slog.Int("applied", len(results)),
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()))
	return nil
}

// MigrationStatus reports the state of every known migration.
func MigrationStatus(ctx context.Context, db *sql.DB, dialect Dialect) ([]*goose.MigrationStatus, error) {
	provider, err := NewMigrator(db, dialect)
	if err != nil {
		return nil, err
	}
	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	return statuses, nil
}
