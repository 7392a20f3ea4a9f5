package entry

import (
	"time"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

// GenerateSchedule builds the installment sequence from the entry's
// header fields: a down payment row (when the down payment is positive)
// followed by count regular installments splitting the remaining
// balance, due monthly from firstDue.
//
// Existing installment IDs are preserved positionally when the regular
// count is unchanged, so external storage can update rows in place
// instead of churning identities. Paid amounts and dates are carried
// over the same way. When the count changes, payment state cannot be
// mapped and the schedule starts clean.
func (e *Entry) GenerateSchedule(count int, firstDue time.Time) error {
	if count <= 0 {
		return ErrInvalidCount
	}
	if e.DownPayment.IsNegative() {
		return ErrInvalidBalance
	}
	if e.DownPayment.GreaterThan(e.TotalValue) {
		return ErrDownPaymentExceedsTotal
	}

	amounts, err := Split(e.Balance(), count)
	if err != nil {
		return err
	}

	previous := e.Regular()
	var previousDown *Installment
	if len(e.Installments) > 0 && e.Installments[0].IsDownPayment() {
		previousDown = &e.Installments[0]
	}
	sameShape := len(previous) == count

	rows := make([]Installment, 0, count+1)

	if e.DownPayment.IsPositive() {
		down := Installment{
			Entity:         types.NewEntity(),
			ID:             id.NewInstallmentID(),
			EntryID:        e.ID,
			Number:         DownPaymentNumber,
			DueDate:        e.IssueDate,
			ExpectedAmount: e.DownPayment,
			PaidAmount:     types.Zero(e.Currency),
			Status:         StatusPending,
		}
		if previousDown != nil {
			down.ID = previousDown.ID
			down.Entity = previousDown.Entity
			if sameShape {
				down.PaidAmount = previousDown.PaidAmount
				down.PaidDate = previousDown.PaidDate
				down.Status = previousDown.Status
			}
		}
		rows = append(rows, down)
	}

	for i, amount := range amounts {
		in := Installment{
			Entity:         types.NewEntity(),
			ID:             id.NewInstallmentID(),
			EntryID:        e.ID,
			Number:         i + 1,
			DueDate:        firstDue.AddDate(0, i, 0),
			ExpectedAmount: amount,
			PaidAmount:     types.Zero(e.Currency),
			Status:         StatusPending,
		}
		if sameShape {
			in.ID = previous[i].ID
			in.Entity = previous[i].Entity
			in.PaidAmount = previous[i].PaidAmount
			in.PaidDate = previous[i].PaidDate
			in.Status = previous[i].Status
			in.Canceled = previous[i].Canceled
			in.Touch()
		}
		rows = append(rows, in)
	}

	e.Installments = rows
	e.ManuallyEdited = false
	e.Touch()
	return nil
}

// ApplyHeader updates the entry's document-level fields and applies the
// regeneration policy: the schedule is rebuilt when the total value,
// down payment, or installment count changes. Manual edits are
// preserved until a structural change (different count) forces
// regeneration.
//
// The returned bool reports whether the schedule was regenerated.
func (e *Entry) ApplyHeader(h Header) (bool, error) {
	count := h.Count
	if count == 0 {
		count = len(e.Regular())
	}
	if count <= 0 {
		return false, ErrInvalidCount
	}

	oldTotal := e.TotalValue
	oldDown := e.DownPayment
	oldCount := len(e.Regular())

	e.DocumentValue = h.DocumentValue
	e.Discount = h.Discount
	e.Interest = h.Interest
	e.DownPayment = h.DownPayment
	if !h.IssueDate.IsZero() {
		e.IssueDate = h.IssueDate
	}
	e.TotalValue = e.ComputeTotal()

	if e.DownPayment.GreaterThan(e.TotalValue) {
		return false, ErrDownPaymentExceedsTotal
	}

	structural := count != oldCount
	material := structural ||
		!e.TotalValue.Equal(oldTotal) ||
		!e.DownPayment.Equal(oldDown)

	if !material {
		e.Touch()
		return false, nil
	}
	if e.ManuallyEdited && !structural {
		// Manual edits survive value-only header changes.
		e.Touch()
		return false, nil
	}

	firstDue := h.FirstDue
	if firstDue.IsZero() {
		if regular := e.Regular(); len(regular) > 0 {
			firstDue = regular[0].DueDate
		} else {
			firstDue = e.IssueDate.AddDate(0, 1, 0)
		}
	}

	if err := e.GenerateSchedule(count, firstDue); err != nil {
		return false, err
	}
	return true, nil
}
