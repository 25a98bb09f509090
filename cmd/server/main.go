// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/festy23/consultant_staffing/internal/config"
	dbConfig "github.com/festy23/consultant_staffing/internal/database/config"
	"github.com/festy23/consultant_staffing/internal/database/database"
	"github.com/festy23/consultant_staffing/internal/database/migrate"
	"github.com/festy23/consultant_staffing/internal/events"
	"github.com/festy23/consultant_staffing/internal/health"
	"github.com/festy23/consultant_staffing/internal/server"
	"github.com/festy23/consultant_staffing/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg, err := dbConfig.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	db, err := database.NewWithConfig(ctx, dbCfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if dbCfg.AutoMigrate {
		if err := migrate.Migrate(db); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Infow("migrations applied")
	}

	deps := server.Deps{
		Config: cfg,
		DB:     db,
		Probes: map[string]health.Probe{},
		Logger: log,
	}

	if cfg.Cache.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		defer func() { _ = client.Close() }()
		deps.Cache = client
		deps.Probes["cache"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Infow("consultant cache enabled", "addr", cfg.Cache.Addr, "ttl", cfg.Cache.ConsultantTTL)
	}

	if cfg.Broker.Enabled() {
		publisher, err := events.NewAMQPPublisher(cfg.Broker)
		if err != nil {
			return err
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warnw("failed to close event publisher", "error", err)
			}
		}()
		deps.Publisher = publisher
		deps.Probes["broker"] = publisher.Ping
		log.Infow("event publishing enabled", "exchange", cfg.Broker.Exchange)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      server.NewEngine(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Infow("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}
