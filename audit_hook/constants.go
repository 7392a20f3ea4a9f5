package audithook

// Action constants for audit events.
const (
	// Entry actions
	ActionEntryCreated = "entry.created"
	ActionEntryUpdated = "entry.updated"
	ActionEntryDeleted = "entry.deleted"
	ActionEntrySettled = "entry.settled"

	// Schedule actions
	ActionScheduleGenerated = "schedule.generated"
	ActionInstallmentEdited = "installment.edited"
	ActionRebalanceWarning  = "rebalance.warning"

	// Settlement actions
	ActionPaymentRegistered = "payment.registered"
	ActionStatusChanged     = "status.changed"

	// Reporting actions
	ActionSummaryComputed = "summary.computed"
)

// Resource constants for audit events.
const (
	ResourceEntry       = "entry"
	ResourceInstallment = "installment"
	ResourcePayment     = "payment"
	ResourceSummary     = "summary"
)

// Category constants for audit events.
const (
	CategorySchedule   = "schedule"
	CategorySettlement = "settlement"
	CategoryReporting  = "reporting"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
