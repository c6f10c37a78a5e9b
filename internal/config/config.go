package config

import "time"

// Password schemes understood by the data store.
const (
	PasswordSchemePlaintext = "plaintext"
	PasswordSchemeBcrypt    = "bcrypt"
)

// Database drivers understood by the data store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Store    StoreConfig    `mapstructure:"store"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is a PostgreSQL connection URL for the postgres driver and a file
// path (or file: URI) for the sqlite driver.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
}

// AuthConfig selects how passwords are stored and compared.
type AuthConfig struct {
	PasswordScheme string `mapstructure:"password_scheme" validate:"required,oneof=plaintext bcrypt"`
	BcryptCost     int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// StoreConfig tunes data store behavior.
type StoreConfig struct {
	// CascadeAllResults makes account deletion remove rows from all five
	// result tables instead of only visual_acuity and color_vision.
	CascadeAllResults bool `mapstructure:"cascade_all_results"`
}
