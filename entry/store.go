package entry

import (
	"context"

	"github.com/xraph/tally/id"
)

// Store is the persistence contract for entries and their installment
// rows. The unified store.Store interface embeds these methods; this
// fragment exists so collaborators can depend on just the entry surface.
type Store interface {
	Create(ctx context.Context, e *Entry) error
	Get(ctx context.Context, entryID id.EntryID) (*Entry, error)
	List(ctx context.Context, opts ListOpts) ([]*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, entryID id.EntryID) error

	// UpsertInstallments replaces an entry's installment rows. Rows are
	// matched by ID, so a schedule regenerated with preserved IDs
	// updates in place while new IDs insert and absent IDs are removed.
	UpsertInstallments(ctx context.Context, entryID id.EntryID, installments []Installment) error
	GetInstallments(ctx context.Context, entryID id.EntryID) ([]Installment, error)
}
