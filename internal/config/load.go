package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "VISION"

// ConfigFileEnv names the environment variable that points at an explicit
// config file. When unset, config.yaml in the working directory is used if
// present.
const ConfigFileEnv = EnvPrefix + "_CONFIG_FILE"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is loaded first without overriding
// variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// database.url has no default, so AutomaticEnv alone would not surface
	// it to Unmarshal.
	if err := v.BindEnv("database.url"); err != nil {
		return nil, fmt.Errorf("failed to bind database url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("auth.password_scheme", PasswordSchemePlaintext)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("store.cascade_all_results", false)
}
