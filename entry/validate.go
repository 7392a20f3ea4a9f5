package entry

// DefaultTolerance is the sum-mismatch tolerance in minor units. One
// unit absorbs the legitimate final rounding of a split schedule.
const DefaultTolerance = 1

// Validate checks the entry's invariants. It returns hard errors for
// violations that must block a submission and warnings for conditions
// the caller should surface without blocking (back-dated due dates).
//
// Checks run in order:
//   - total value equals document value - discount + interest (clamped
//     at zero),
//   - the down payment does not exceed the total,
//   - when installments exist, their sum matches the balance within
//     tolerance minor units (ErrImbalancedInstallments carries the
//     figures otherwise).
//
// Validate never mutates the entry; calling it twice on an unmodified
// entry yields identical results.
func (e *Entry) Validate(tolerance int64) ([]Warning, error) {
	if e.DocumentValue.IsNegative() || e.Discount.IsNegative() ||
		e.Interest.IsNegative() || e.DownPayment.IsNegative() {
		return nil, ErrInvalidBalance
	}

	if !e.TotalValue.Equal(e.ComputeTotal()) {
		return nil, &ImbalanceError{
			Expected: e.ComputeTotal().Amount,
			Actual:   e.TotalValue.Amount,
		}
	}

	if e.DownPayment.GreaterThan(e.TotalValue) {
		return nil, ErrDownPaymentExceedsTotal
	}

	if len(e.Regular()) > 0 {
		expected := e.Balance().Amount
		actual := e.InstallmentSum().Amount
		if abs(expected-actual) > tolerance {
			return nil, &ImbalanceError{Expected: expected, Actual: actual}
		}
	}

	var warnings []Warning
	if !e.IssueDate.IsZero() {
		for i, in := range e.Regular() {
			if in.DueDate.Before(e.IssueDate) {
				warnings = append(warnings, Warning{
					Code:    WarnBackDatedDue,
					Index:   i,
					Message: "due date falls before the document issue date",
				})
			}
		}
	}

	return warnings, nil
}
