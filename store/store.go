package store

import (
	"context"

	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/report"
)

// Store is the unified storage interface for all Tally entities.
// Instead of embedding the sub-interfaces, we explicitly declare all methods
// to avoid naming conflicts.
//
// Implementations must preserve installment row identity across
// positional updates: a schedule regenerated with unchanged IDs updates
// the existing rows in place. The engine does not serialize writers;
// at-most-one-writer-per-entry is the caller's contract.
type Store interface {
	// Entry methods
	CreateEntry(ctx context.Context, e *entry.Entry) error
	GetEntry(ctx context.Context, entryID id.EntryID) (*entry.Entry, error)
	ListEntries(ctx context.Context, opts entry.ListOpts) ([]*entry.Entry, error)
	UpdateEntry(ctx context.Context, e *entry.Entry) error
	DeleteEntry(ctx context.Context, entryID id.EntryID) error

	// Installment methods
	UpsertInstallments(ctx context.Context, entryID id.EntryID, installments []entry.Installment) error
	GetInstallments(ctx context.Context, entryID id.EntryID) ([]entry.Installment, error)

	// Payment methods
	RecordPayment(ctx context.Context, p *payment.Payment) error
	ListPayments(ctx context.Context, entryID id.EntryID, opts payment.ListOpts) ([]*payment.Payment, error)

	// Reconciliation methods
	ListRows(ctx context.Context, filter report.Filter) ([]report.Row, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
