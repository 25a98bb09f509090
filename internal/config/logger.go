package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	// Level is the logging level (debug, info, warn, error).
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is the logging format (json, console).
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	// Output is the output destination (stdout, stderr).
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

// LoadLoggerConfigFromEnv loads logger configuration from environment variables.
func LoadLoggerConfigFromEnv() (LoggerConfig, error) {
	return env.ParseAs[LoggerConfig]()
}

// Validate validates logger configuration.
func (c LoggerConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be: debug, info, warn, error)", c.Level)
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid log format: %s (must be: json, console)", c.Format)
	}

	if c.Output != "stdout" && c.Output != "stderr" {
		return fmt.Errorf("invalid log output: %s (must be: stdout, stderr)", c.Output)
	}

	return nil
}

// IsProduction returns true if logger is configured for production.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}
