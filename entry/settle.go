package entry

import (
	"time"

	"github.com/xraph/tally/types"
)

// Status is the derived payment state of an installment.
type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusOverdue       Status = "overdue"
	StatusCanceled      Status = "canceled"
)

// Classify derives an installment's settlement status from current
// facts. It is a pure re-evaluatable classification, not a stored
// transition log: recomputing from (expected, paid, due, now, canceled)
// each time balances change means there is no invalid-transition class
// of error. The only rejected input is a negative paid amount.
//
// Once any money has moved the installment is partially_paid regardless
// of the due date; "overdue" applies only while nothing has been paid.
// Canceled is terminal.
func Classify(expected, paid types.Money, due time.Time, now time.Time, canceled bool) (Status, error) {
	if paid.IsNegative() {
		return "", ErrInvalidPayment
	}

	switch {
	case canceled:
		return StatusCanceled, nil
	case paid.IsZero() && due.Before(now):
		return StatusOverdue, nil
	case paid.IsZero():
		return StatusPending, nil
	case paid.Amount < expected.Amount:
		return StatusPartiallyPaid, nil
	default:
		return StatusPaid, nil
	}
}

// Reclassify recomputes the status of every installment against the
// given instant and returns the numbers of the installments whose
// status changed.
func (e *Entry) Reclassify(now time.Time) ([]int, error) {
	var changed []int
	for i := range e.Installments {
		in := &e.Installments[i]
		status, err := Classify(in.ExpectedAmount, in.PaidAmount, in.DueDate, now, in.Canceled)
		if err != nil {
			return nil, err
		}
		if in.Status != status {
			in.Status = status
			in.Touch()
			changed = append(changed, in.Number)
		}
	}
	return changed, nil
}
