// Package plugin provides an extensible plugin system for Tally.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Entry lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntryCreated is called when a new ledger entry is created.
type OnEntryCreated interface {
	Plugin
	OnEntryCreated(ctx context.Context, entry interface{}) error
}

// OnEntryUpdated is called when an entry's header is updated.
type OnEntryUpdated interface {
	Plugin
	OnEntryUpdated(ctx context.Context, entry interface{}) error
}

// OnEntryDeleted is called when an entry is deleted.
type OnEntryDeleted interface {
	Plugin
	OnEntryDeleted(ctx context.Context, entryID string) error
}

// ──────────────────────────────────────────────────
// Schedule hooks
// ──────────────────────────────────────────────────

// OnScheduleGenerated is called when an installment schedule is
// generated or regenerated.
type OnScheduleGenerated interface {
	Plugin
	OnScheduleGenerated(ctx context.Context, entry interface{}, count int) error
}

// OnInstallmentEdited is called when a single installment's amount or
// due date is edited.
type OnInstallmentEdited interface {
	Plugin
	OnInstallmentEdited(ctx context.Context, entry interface{}, index int) error
}

// OnRebalanceWarning is called when rebalancing auto-corrected a value
// the user should be told about.
type OnRebalanceWarning interface {
	Plugin
	OnRebalanceWarning(ctx context.Context, entry interface{}, warning interface{}) error
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPaymentRegistered is called when a payment is registered against an
// installment.
type OnPaymentRegistered interface {
	Plugin
	OnPaymentRegistered(ctx context.Context, payment interface{}) error
}

// OnStatusChanged is called when an installment's settlement status
// changes, including periodic overdue reclassification.
type OnStatusChanged interface {
	Plugin
	OnStatusChanged(ctx context.Context, entryID string, number int, status string) error
}

// OnInstallmentSettled is called when a single installment reaches the
// paid status.
type OnInstallmentSettled interface {
	Plugin
	OnInstallmentSettled(ctx context.Context, entryID string, number int) error
}

// OnEntrySettled is called when every installment of an entry is fully
// paid.
type OnEntrySettled interface {
	Plugin
	OnEntrySettled(ctx context.Context, entry interface{}) error
}

// ──────────────────────────────────────────────────
// Reporting hooks
// ──────────────────────────────────────────────────

// OnSummaryComputed is called after a reconciliation summary is
// computed.
type OnSummaryComputed interface {
	Plugin
	OnSummaryComputed(ctx context.Context, summary interface{}) error
}
