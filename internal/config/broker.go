package config

import (
	"fmt"
	"time"
)

// BrokerConfig holds RabbitMQ configuration for domain events.
type BrokerConfig struct {
	// URL is the AMQP URL. Empty disables event publishing.
	URL string `env:"RABBITMQ_URL"`
	// Exchange is the topic exchange events are published to.
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"staffing.events"`
	// PublishTimeout bounds a single publish.
	PublishTimeout time.Duration `env:"RABBITMQ_PUBLISH_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether a broker is configured.
func (c BrokerConfig) Enabled() bool {
	return c.URL != ""
}

// Validate validates broker configuration.
func (c BrokerConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Exchange == "" {
		return fmt.Errorf("Exchange must not be empty")
	}
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("PublishTimeout must be greater than 0")
	}
	return nil
}

// CacheConfig holds Redis configuration for the consultant directory cache.
type CacheConfig struct {
	// Addr is host:port of the Redis server. Empty disables caching.
	Addr string `env:"REDIS_ADDR"`
	// Password is the Redis password.
	Password string `env:"REDIS_PASSWORD"`
	// DB is the Redis logical database.
	DB int `env:"REDIS_DB" envDefault:"0"`
	// ConsultantTTL is how long a cached consultant stays valid.
	ConsultantTTL time.Duration `env:"REDIS_CONSULTANT_TTL" envDefault:"5m"`
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool {
	return c.Addr != ""
}

// Validate validates cache configuration.
func (c CacheConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.DB < 0 {
		return fmt.Errorf("DB must be non-negative")
	}
	if c.ConsultantTTL <= 0 {
		return fmt.Errorf("ConsultantTTL must be greater than 0")
	}
	return nil
}
