package entry

import (
	"fmt"
	"time"

	"github.com/xraph/tally/types"
)

// WarningCode identifies the kind of non-blocking notice an operation
// produced. Warnings mean a value was auto-corrected and the user should
// be told; they never mean the operation was refused.
type WarningCode string

const (
	// WarnLastAdjusted: the edit was absorbed by adjusting the last
	// installment.
	WarnLastAdjusted WarningCode = "last_installment_adjusted"

	// WarnClampedToZero: balancing drove an installment negative and it
	// was clamped to zero, leaving the schedule short of the balance.
	WarnClampedToZero WarningCode = "clamped_to_zero"

	// WarnEditReverted: an edit to the last installment was forced back
	// to the only value that preserves the balance.
	WarnEditReverted WarningCode = "edit_reverted"

	// WarnBackDatedDue: a due date falls before the document's issue
	// date.
	WarnBackDatedDue WarningCode = "back_dated_due_date"
)

// Warning is a non-blocking notice surfaced to the caller for user
// display. Index addresses the affected regular installment.
type Warning struct {
	Code     WarningCode `json:"code"`
	Index    int         `json:"index"`
	Message  string      `json:"message"`
	Required types.Money `json:"required,omitempty"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// ApplyAmountEdit sets the expected amount of the regular installment at
// index and rebalances the schedule so it still sums to the entry
// balance:
//
//   - Edits anywhere except the last slot are absorbed by the last
//     installment. If absorption would drive the last installment
//     negative it is clamped to zero and a warning is returned.
//   - Edits to the last slot have no further slot to absorb the
//     difference. Beyond the tolerance (in minor units) the edit is
//     forced back to the one value that preserves the balance, and the
//     warning carries that required value.
//
// A nil warning means the edit was applied as entered. The entry is
// marked manually edited. Negative amounts are rejected before any
// mutation.
func (e *Entry) ApplyAmountEdit(index int, amount types.Money, tolerance int64) (*Warning, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidBalance
	}

	regular := e.Regular()
	if index < 0 || index >= len(regular) {
		return nil, ErrIndexOutOfRange
	}
	if regular[index].Canceled {
		return nil, ErrInstallmentCanceled
	}

	offset := e.regularOffset()
	e.Installments[offset+index].ExpectedAmount = amount
	e.Installments[offset+index].Touch()
	e.ManuallyEdited = true

	target := e.Balance()
	difference := target.Amount - e.InstallmentSum().Amount

	var warning *Warning

	switch {
	case difference == 0:
		// Balanced as entered.

	case index < len(regular)-1 && len(regular) > 1:
		last := &e.Installments[offset+len(regular)-1]
		adjusted := last.ExpectedAmount.Amount + difference
		if adjusted < 0 {
			last.ExpectedAmount = types.Zero(e.Currency)
			warning = &Warning{
				Code:    WarnClampedToZero,
				Index:   len(regular) - 1,
				Message: "adjustment exceeds remaining balance; last installment clamped to zero",
			}
		} else {
			last.ExpectedAmount = types.Money{Amount: adjusted, Currency: e.Currency}
			warning = &Warning{
				Code:     WarnLastAdjusted,
				Index:    len(regular) - 1,
				Message:  fmt.Sprintf("last installment adjusted to %s to preserve the total", last.ExpectedAmount.FormatMajor()),
				Required: last.ExpectedAmount,
			}
		}
		last.Touch()

	default:
		// Last slot (or single installment): nothing left to absorb the
		// difference. Within tolerance the entry is accepted as-is;
		// beyond it the edit is rejected as entered.
		if abs(difference) > tolerance {
			required := types.Money{Amount: amount.Amount + difference, Currency: e.Currency}
			if required.IsNegative() {
				required = types.Zero(e.Currency)
			}
			e.Installments[offset+index].ExpectedAmount = required
			warning = &Warning{
				Code:     WarnEditReverted,
				Index:    index,
				Message:  fmt.Sprintf("edit rejected; installment must be %s to preserve the total", required.FormatMajor()),
				Required: required,
			}
		}
	}

	// Safety net: no installment may ever hold a negative amount.
	for i := range e.Installments {
		if e.Installments[i].ExpectedAmount.IsNegative() {
			e.Installments[i].ExpectedAmount = types.Zero(e.Currency)
		}
	}

	e.Touch()
	return warning, nil
}

// ApplyDueDateEdit sets the due date of the regular installment at index
// and marks the entry manually edited. A due date before the document's
// issue date is tolerated with a warning, not rejected.
func (e *Entry) ApplyDueDateEdit(index int, due time.Time) (*Warning, error) {
	regular := e.Regular()
	if index < 0 || index >= len(regular) {
		return nil, ErrIndexOutOfRange
	}
	if regular[index].Canceled {
		return nil, ErrInstallmentCanceled
	}

	offset := e.regularOffset()
	e.Installments[offset+index].DueDate = due
	e.Installments[offset+index].Touch()
	e.ManuallyEdited = true
	e.Touch()

	if !e.IssueDate.IsZero() && due.Before(e.IssueDate) {
		return &Warning{
			Code:    WarnBackDatedDue,
			Index:   index,
			Message: "due date falls before the document issue date",
		}, nil
	}
	return nil, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
