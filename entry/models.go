// Package entry implements the ledger entry aggregate: one financial
// document (receivable or payable) whose balance is split across an
// optional down payment and a sequence of installments.
//
// The arithmetic here is the core of Tally. All computations are pure,
// integer-only, and O(installment count); persistence and presentation
// are the caller's concern.
package entry

import (
	"time"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

// Kind distinguishes money owed to us from money we owe.
type Kind string

const (
	KindReceivable Kind = "receivable"
	KindPayable    Kind = "payable"
)

// DownPaymentNumber is the installment number reserved for the down
// payment row. Regular installments are numbered from 1.
const DownPaymentNumber = 0

// Entry is one financial document: header values plus the ordered
// installment schedule that must sum back to them.
type Entry struct {
	types.Entity
	ID            id.EntryID  `json:"id"`
	Kind          Kind        `json:"kind"`
	Currency      string      `json:"currency"`
	Description   string      `json:"description,omitempty"`
	DocumentValue types.Money `json:"document_value"`
	Discount      types.Money `json:"discount"`
	Interest      types.Money `json:"interest"`
	TotalValue    types.Money `json:"total_value"`
	DownPayment   types.Money `json:"down_payment"`
	IssueDate     time.Time   `json:"issue_date"`

	// ManuallyEdited marks a schedule the user has touched (amount or due
	// date). Header changes no longer regenerate the schedule while it is
	// set; a structural change (installment count) clears it.
	ManuallyEdited bool `json:"manually_edited"`

	// Installments is ordered by Number. When a down payment exists it
	// occupies Number 0 as the first element.
	Installments []Installment `json:"installments"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Installment is one scheduled portion of an entry's balance.
type Installment struct {
	types.Entity
	ID             id.InstallmentID `json:"id"`
	EntryID        id.EntryID       `json:"entry_id"`
	Number         int              `json:"number"` // 0 = down payment
	DueDate        time.Time        `json:"due_date"`
	ExpectedAmount types.Money      `json:"expected_amount"`
	PaidAmount     types.Money      `json:"paid_amount"`
	PaidDate       *time.Time       `json:"paid_date,omitempty"`
	Canceled       bool             `json:"canceled"`
	Status         Status           `json:"status"`
}

// Outstanding returns the unpaid remainder of the installment, never
// negative (overpayment leaves a zero balance, not a credit).
func (i Installment) Outstanding() types.Money {
	return i.ExpectedAmount.SubtractClamped(i.PaidAmount)
}

// IsDownPayment reports whether this is the down payment row.
func (i Installment) IsDownPayment() bool {
	return i.Number == DownPaymentNumber
}

// Header carries the editable document-level fields of an entry.
// It is the input to header updates, which decide whether the schedule
// must be regenerated.
type Header struct {
	DocumentValue types.Money
	Discount      types.Money
	Interest      types.Money
	DownPayment   types.Money
	IssueDate     time.Time

	// Count is the desired number of regular installments. Zero means
	// "keep the current count".
	Count int

	// FirstDue anchors regenerated schedules. Ignored when no
	// regeneration happens.
	FirstDue time.Time
}

// ComputeTotal derives the total from the header fields:
// document value - discount + interest, clamped at zero when the
// discount exceeds the document value.
func (e *Entry) ComputeTotal() types.Money {
	return e.DocumentValue.SubtractClamped(e.Discount).Add(e.Interest)
}

// Balance is the amount the regular installments must sum to:
// total value minus the down payment.
func (e *Entry) Balance() types.Money {
	return e.TotalValue.SubtractClamped(e.DownPayment)
}

// Regular returns the installments excluding the down payment row,
// in schedule order. The returned slice aliases e.Installments.
func (e *Entry) Regular() []Installment {
	if len(e.Installments) > 0 && e.Installments[0].IsDownPayment() {
		return e.Installments[1:]
	}
	return e.Installments
}

// regularOffset is the index of the first regular installment within
// e.Installments.
func (e *Entry) regularOffset() int {
	if len(e.Installments) > 0 && e.Installments[0].IsDownPayment() {
		return 1
	}
	return 0
}

// InstallmentSum returns the sum of the regular installments' expected
// amounts.
func (e *Entry) InstallmentSum() types.Money {
	sum := types.Zero(e.Currency)
	for _, in := range e.Regular() {
		sum = sum.Add(in.ExpectedAmount)
	}
	return sum
}

// PaidSum returns the sum of all paid amounts, down payment included.
func (e *Entry) PaidSum() types.Money {
	sum := types.Zero(e.Currency)
	for _, in := range e.Installments {
		sum = sum.Add(in.PaidAmount)
	}
	return sum
}

// IsSettled reports whether every non-canceled installment is fully paid.
// An entry with no installments is not settled.
func (e *Entry) IsSettled() bool {
	if len(e.Installments) == 0 {
		return false
	}
	for _, in := range e.Installments {
		if in.Canceled {
			continue
		}
		if in.PaidAmount.LessThan(in.ExpectedAmount) {
			return false
		}
	}
	return true
}

// FindInstallment returns a pointer to the installment with the given
// number, or nil.
func (e *Entry) FindInstallment(number int) *Installment {
	for i := range e.Installments {
		if e.Installments[i].Number == number {
			return &e.Installments[i]
		}
	}
	return nil
}

// ListOpts filters entry listings.
type ListOpts struct {
	Kind Kind // empty matches both kinds

	// OpenOnly restricts the listing to entries with at least one
	// unsettled, non-canceled installment.
	OpenOnly bool

	// DueBefore, when non-zero, matches entries having an installment
	// due strictly before the given instant.
	DueBefore time.Time

	Limit  int
	Offset int
}
