package entry

import (
	"errors"
	"fmt"
)

// Domain error sentinels. The root tally package re-exports these so
// callers can match them without importing entry directly.
var (
	// ErrInvalidBalance flags a negative or malformed monetary input.
	ErrInvalidBalance = errors.New("tally: invalid balance")

	// ErrInvalidCount flags a non-positive installment count.
	ErrInvalidCount = errors.New("tally: invalid installment count")

	// ErrImbalancedInstallments flags a schedule whose sum differs from
	// the entry balance beyond tolerance. Returned wrapped in an
	// ImbalanceError carrying the figures.
	ErrImbalancedInstallments = errors.New("tally: installments do not sum to balance")

	// ErrDownPaymentExceedsTotal flags a down payment larger than the
	// entry's total value.
	ErrDownPaymentExceedsTotal = errors.New("tally: down payment exceeds total value")

	// ErrInvalidPayment flags a negative paid amount.
	ErrInvalidPayment = errors.New("tally: invalid payment amount")

	// ErrIndexOutOfRange flags an installment edit addressed outside the
	// schedule.
	ErrIndexOutOfRange = errors.New("tally: installment index out of range")

	// ErrInstallmentCanceled flags an operation against a canceled
	// installment.
	ErrInstallmentCanceled = errors.New("tally: installment is canceled")
)

// ImbalanceError reports the exact figures of a sum mismatch so the
// caller can display expected vs. actual values. Minor units.
type ImbalanceError struct {
	Expected int64
	Actual   int64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("tally: installments sum to %d, balance requires %d", e.Actual, e.Expected)
}

// Unwrap makes errors.Is(err, ErrImbalancedInstallments) match.
func (e *ImbalanceError) Unwrap() error {
	return ErrImbalancedInstallments
}
