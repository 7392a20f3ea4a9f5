package extension

import (
	"time"

	"github.com/xraph/grove"

	tally "github.com/xraph/tally"
	"github.com/xraph/tally/plugin"
	"github.com/xraph/tally/store"
)

// Option configures the Tally Forge extension.
type Option func(*Extension)

// WithStore sets the store for the tally engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithTallyOption passes a tally.Option through to the underlying engine.
func WithTallyOption(opt tally.Option) Option {
	return func(e *Extension) {
		e.tallyOpts = append(e.tallyOpts, opt)
	}
}

// WithPlugin registers a tally plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.tallyOpts = append(e.tallyOpts, tally.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithStatusRefreshInterval sets how frequently open installments are
// re-checked for overdue transitions.
func WithStatusRefreshInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.StatusRefreshInterval = d }
}

// WithBalanceTolerance sets the residual difference, in minor units,
// that rebalancing accepts without forcing a correction.
func WithBalanceTolerance(minorUnits int64) Option {
	return func(e *Extension) { e.config.BalanceTolerance = minorUnits }
}

// WithDefaultCurrency sets the currency assumed for entries created
// without one.
func WithDefaultCurrency(currency string) Option {
	return func(e *Extension) { e.config.DefaultCurrency = currency }
}

// WithGroveDB injects a grove.DB for store construction. The extension
// builds the appropriate store backend (postgres/sqlite/mongo) based on
// the configured GroveDriver. Ignored when WithStore was also called.
func WithGroveDB(db *grove.DB) Option {
	return func(e *Extension) {
		e.groveDB = db
	}
}
