// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the data store facade, so the same account and result rules run
// unchanged against any supported SQL dialect.
package store
