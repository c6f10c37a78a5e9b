// Package testdb provides utilities specifically for database testing:
// a migrated throwaway SQLite database per test, and a PostgreSQL handle
// for integration tests that is only available when a database URL is set.
package testdb
