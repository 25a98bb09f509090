// Package config provides database configuration management.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/festy23/consultant_staffing/internal/database/pool"
	"github.com/festy23/consultant_staffing/pkg/retry"
)

// Config holds database connection configuration.
type Config struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"consultant_staffing"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`
	// AutoMigrate applies embedded migrations on startup.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	// Pool configures the connection pool.
	Pool pool.Config
}

// retrySettings mirrors the tunable subset of retry.Config.
type retrySettings struct {
	MaxAttempts  int           `env:"DB_RETRY_MAX_ATTEMPTS"`
	InitialDelay time.Duration `env:"DB_RETRY_INITIAL_DELAY"`
	MaxDelay     time.Duration `env:"DB_RETRY_MAX_DELAY"`
	Multiplier   float64       `env:"DB_RETRY_MULTIPLIER"`
}

// BuildDSN constructs PostgreSQL DSN string from configuration.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// LoadConfigFromEnv loads database configuration from environment variables.
func LoadConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse database environment: %w", err)
	}
	return cfg, nil
}

// SanitizeError removes the password from connection error messages.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	errMsg := err.Error()
	if cfg.Password != "" {
		safeDSN := strings.Replace(BuildDSN(cfg), "password="+cfg.Password, "password=***", 1)
		errMsg = strings.ReplaceAll(errMsg, BuildDSN(cfg), safeDSN)
		errMsg = strings.ReplaceAll(errMsg, cfg.Password, "***")
	}
	return fmt.Errorf("failed to connect to database: %s", errMsg)
}

// LoadRetryConfigFromEnv loads the connection retry strategy. Unset or
// unparsable variables keep the PostgreSQL defaults.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.PostgresConfig()

	settings, err := env.ParseAs[retrySettings]()
	if err != nil {
		return cfg
	}
	if settings.MaxAttempts > 0 {
		cfg.MaxAttempts = settings.MaxAttempts
	}
	if settings.InitialDelay > 0 {
		cfg.InitialDelay = settings.InitialDelay
	}
	if settings.MaxDelay > 0 {
		cfg.MaxDelay = settings.MaxDelay
	}
	if settings.Multiplier > 0 {
		cfg.Multiplier = settings.Multiplier
	}
	return cfg
}
