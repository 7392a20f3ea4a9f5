package tally

import (
	"errors"

	"github.com/xraph/tally/entry"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("tally: not found")
	ErrAlreadyExists = errors.New("tally: already exists")
	ErrInvalidInput  = errors.New("tally: invalid input")

	// Entry errors
	ErrEntryNotFound       = errors.New("tally: entry not found")
	ErrInstallmentNotFound = errors.New("tally: installment not found")
	ErrPaymentNotFound     = errors.New("tally: payment not found")
	ErrCurrencyMismatch    = errors.New("tally: currency mismatch")

	// Store errors
	ErrStoreNotReady     = errors.New("tally: store not ready")
	ErrStoreClosed       = errors.New("tally: store is closed")
	ErrTransactionFailed = errors.New("tally: transaction failed")
	ErrMigrationFailed   = errors.New("tally: migration failed")
)

// Domain errors are defined alongside the arithmetic in the entry
// package; they are re-exported here so callers can match the full
// taxonomy from one import.
var (
	// ErrInvalidBalance flags a negative or malformed monetary input.
	ErrInvalidBalance = entry.ErrInvalidBalance

	// ErrInvalidCount flags a non-positive installment count.
	ErrInvalidCount = entry.ErrInvalidCount

	// ErrImbalancedInstallments flags a schedule whose sum differs from
	// the entry balance beyond tolerance.
	ErrImbalancedInstallments = entry.ErrImbalancedInstallments

	// ErrDownPaymentExceedsTotal flags a down payment larger than the
	// total value.
	ErrDownPaymentExceedsTotal = entry.ErrDownPaymentExceedsTotal

	// ErrInvalidPayment flags a negative paid amount.
	ErrInvalidPayment = entry.ErrInvalidPayment

	// ErrIndexOutOfRange flags an installment edit addressed outside
	// the schedule.
	ErrIndexOutOfRange = entry.ErrIndexOutOfRange

	// ErrInstallmentCanceled flags an operation against a canceled
	// installment.
	ErrInstallmentCanceled = entry.ErrInstallmentCanceled
)

// ImbalanceError carries the expected vs. actual minor-unit figures of
// a sum mismatch for the caller to display.
type ImbalanceError = entry.ImbalanceError

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrInstallmentNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsValidationError returns true if the error is a caller-surfaced
// domain validation failure rather than an infrastructure fault. All
// of these are recoverable: the caller decides whether to block a
// submission or merely report.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidBalance) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrImbalancedInstallments) ||
		errors.Is(err, ErrDownPaymentExceedsTotal) ||
		errors.Is(err, ErrInvalidPayment) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrInvalidInput)
}

// IsRetryable returns true if the error is temporary and the operation
// can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
