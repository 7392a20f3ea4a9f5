package payment

import (
	"context"

	"github.com/xraph/tally/id"
)

// Store is the persistence contract for payment records. Payments are
// append-only; corrections happen through new compensating rows, never
// edits.
type Store interface {
	Record(ctx context.Context, p *Payment) error
	ListByEntry(ctx context.Context, entryID id.EntryID, opts ListOpts) ([]*Payment, error)
}
