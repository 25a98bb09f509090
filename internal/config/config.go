// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Scheduling holds the business rules of the scheduling core.
	Scheduling SchedulingConfig
	// Broker holds the event broker configuration.
	Broker BrokerConfig
	// Cache holds the consultant directory cache configuration.
	Cache CacheConfig
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := c.Scheduling.Validate(); err != nil {
		return fmt.Errorf("scheduling config validation failed: %w", err)
	}

	if err := c.Broker.Validate(); err != nil {
		return fmt.Errorf("broker config validation failed: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	validGinModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	return nil
}
