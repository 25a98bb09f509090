package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Lead uniqueness policies.
const (
	LeadPolicyWarn   = "warn"
	LeadPolicyReject = "reject"
)

// SchedulingConfig holds the tunable rules of the scheduling core.
type SchedulingConfig struct {
	// LeadPolicy decides whether a second overlapping team lead is a warning
	// the caller may acknowledge (warn) or a hard rejection (reject).
	LeadPolicy string `env:"SCHEDULING_LEAD_POLICY" envDefault:"warn"`
	// ConfirmationPhrase must be typed to cancel or delete a critical assignment.
	ConfirmationPhrase string `env:"SCHEDULING_CONFIRMATION_PHRASE" envDefault:"DELETE"`
	// DefaultHoursPerDay applies when a new assignment omits hoursPerDay.
	DefaultHoursPerDay decimal.Decimal `env:"SCHEDULING_DEFAULT_HOURS_PER_DAY" envDefault:"8"`
	// BulkConcurrency caps parallel work inside one bulk request.
	BulkConcurrency int `env:"SCHEDULING_BULK_CONCURRENCY" envDefault:"4"`
	// BulkMaxItems caps the number of items in one bulk request.
	BulkMaxItems int `env:"SCHEDULING_BULK_MAX_ITEMS" envDefault:"200"`
}

// LoadSchedulingConfigFromEnv loads scheduling configuration from environment variables.
func LoadSchedulingConfigFromEnv() (SchedulingConfig, error) {
	return env.ParseAs[SchedulingConfig]()
}

// Validate validates scheduling configuration.
func (c SchedulingConfig) Validate() error {
	if c.LeadPolicy != LeadPolicyWarn && c.LeadPolicy != LeadPolicyReject {
		return fmt.Errorf("invalid lead policy: %s (must be: warn, reject)", c.LeadPolicy)
	}
	if c.ConfirmationPhrase == "" {
		return fmt.Errorf("ConfirmationPhrase must not be empty")
	}
	if !c.DefaultHoursPerDay.IsPositive() || c.DefaultHoursPerDay.GreaterThan(decimal.NewFromInt(24)) {
		return fmt.Errorf("DefaultHoursPerDay must be within (0, 24], got %s", c.DefaultHoursPerDay)
	}
	if c.BulkConcurrency <= 0 {
		return fmt.Errorf("BulkConcurrency must be greater than 0")
	}
	if c.BulkMaxItems <= 0 {
		return fmt.Errorf("BulkMaxItems must be greater than 0")
	}
	return nil
}
