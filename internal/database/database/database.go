// Package database provides database connection management for PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/festy23/consultant_staffing/internal/database/config"
	"github.com/festy23/consultant_staffing/internal/database/pool"
	"github.com/festy23/consultant_staffing/pkg/retry"
)

// connectTimeout bounds the whole connect-with-retry loop.
const connectTimeout = 2 * time.Minute

// New creates a new database connection using environment variables.
func New(ctx context.Context, logger *zap.SugaredLogger) (*gorm.DB, error) {
	cfg, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, logger)
}

// NewWithConfig connects with retry and applies the configured pool.
func NewWithConfig(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*gorm.DB, error) {
	retryCfg := config.LoadRetryConfigFromEnv()
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	dsn := config.BuildDSN(cfg)
	gormCfg := &gorm.Config{Logger: newGormLogger(logger)}

	attempt := 0
	db, err := retry.DoWithResult(ctx, retryCfg, func() (*gorm.DB, error) {
		attempt++
		conn, openErr := gorm.Open(postgres.Open(dsn), gormCfg)
		if openErr != nil && logger != nil {
			logger.Warnw("database connection attempt failed",
				"attempt", attempt,
				"host", cfg.Host,
				"error", config.SanitizeError(openErr, cfg),
			)
		}
		return conn, openErr
	})
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}

	poolCfg := cfg.Pool
	if poolCfg.MaxOpenConns == 0 {
		poolCfg = pool.DefaultPoolConfig()
	}
	if err := pool.SetupConnectionPool(db, poolCfg); err != nil {
		return nil, fmt.Errorf("failed to setup connection pool: %w", err)
	}

	return db, nil
}

// newGormLogger routes gorm warnings (slow queries, errors) through zap.
func newGormLogger(logger *zap.SugaredLogger) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(
		zap.NewStdLog(logger.Desugar()),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close gracefully closes database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// GetStats returns database connection pool statistics.
func GetStats(db *gorm.DB) (*sql.DBStats, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return &stats, nil
}
