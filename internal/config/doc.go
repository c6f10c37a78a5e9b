// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, an optional YAML file, a .env file and
// environment variables). It provides type-safe access to the settings
// needed by the data store while keeping credentials out of the source.
package config
