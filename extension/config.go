package extension

import "time"

// Config holds the Tally extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tally" or "tally" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// StatusRefreshInterval is how frequently open installments are
	// re-checked for overdue transitions (default: 1h).
	StatusRefreshInterval time.Duration `json:"status_refresh_interval" mapstructure:"status_refresh_interval" yaml:"status_refresh_interval"`

	// BalanceTolerance is the residual difference, in minor units, that
	// rebalancing accepts without forcing a correction (default: 1).
	BalanceTolerance int64 `json:"balance_tolerance" mapstructure:"balance_tolerance" yaml:"balance_tolerance"`

	// DefaultCurrency is assumed for entries created without a currency
	// (e.g. "brl").
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency" yaml:"default_currency"`

	// GroveDriver selects the store backend constructed from an injected
	// grove.DB: "postgres", "sqlite", or "mongo" (default: "postgres").
	// Ignored when no grove.DB was provided.
	GroveDriver string `json:"grove_driver" mapstructure:"grove_driver" yaml:"grove_driver"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		StatusRefreshInterval: time.Hour,
		BalanceTolerance:      1,
		GroveDriver:           "postgres",
	}
}
