// Package report aggregates installment rows into reconciliation
// totals for display and validation.
package report

import (
	"time"

	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

// Row is one flattened installment row carrying its owning entry's
// identity and document-level figures. Stores produce these so the
// summarizer can aggregate without loading full aggregates.
type Row struct {
	EntryID           id.EntryID  `json:"entry_id"`
	Kind              entry.Kind  `json:"kind"`
	DocumentValue     types.Money `json:"document_value"`
	Discount          types.Money `json:"discount"`
	InstallmentNumber int         `json:"installment_number"`
	DueDate           time.Time   `json:"due_date"`
	ExpectedAmount    types.Money `json:"expected_amount"`
	PaidAmount        types.Money `json:"paid_amount"`
	Status            entry.Status `json:"status"`
}

// Summary holds the reconciliation header totals.
type Summary struct {
	Currency      string      `json:"currency"`
	Entries       int         `json:"entries"`
	Rows          int         `json:"rows"`
	DocumentTotal types.Money `json:"document_total"`
	DiscountTotal types.Money `json:"discount_total"`
	PaidTotal     types.Money `json:"paid_total"`
	BalanceTotal  types.Money `json:"balance_total"`
}

// Filter selects the installment rows feeding a summary.
type Filter struct {
	Kind      entry.Kind   // empty matches both kinds
	Status    entry.Status // empty matches every status
	DueAfter  time.Time
	DueBefore time.Time
}
