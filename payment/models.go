// Package payment defines the immutable record kept for every payment
// registered against an installment. The installment's accumulated
// paid amount drives settlement status; the payment rows preserve the
// individual movements behind it.
package payment

import (
	"time"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

// Payment is one registered payment against an installment.
type Payment struct {
	types.Entity
	ID                id.PaymentID     `json:"id"`
	EntryID           id.EntryID       `json:"entry_id"`
	InstallmentID     id.InstallmentID `json:"installment_id"`
	InstallmentNumber int              `json:"installment_number"`
	Amount            types.Money      `json:"amount"`
	PaidAt            time.Time        `json:"paid_at"`
	Reference         string           `json:"reference,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// ListOpts filters payment listings.
type ListOpts struct {
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}
