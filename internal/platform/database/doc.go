// Package database provides the SQL implementations of the persistence
// interfaces defined in internal/store, together with the pieces needed to
// reach a database: dialect handling, connection setup and schema
// migrations. PostgreSQL (via pgx) and SQLite (via modernc.org/sqlite) are
// supported; statements are written once and rebound per dialect.
package database
