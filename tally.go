package tally

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/plugin"
	"github.com/xraph/tally/report"
	"github.com/xraph/tally/store"
	"github.com/xraph/tally/types"
)

// Engine is the main installment engine.
type Engine struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// Background workers
	stopChan chan struct{}
	wg       sync.WaitGroup

	// Configuration
	tolerance       int64
	refreshInterval time.Duration
	defaultCurrency string
	clock           func() time.Time
}

// New creates a new Engine instance.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		stopChan:        make(chan struct{}),
		tolerance:       entry.DefaultTolerance,
		refreshInterval: time.Hour,
		clock:           time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Option configures an Engine instance.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
		e.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Engine) {
		_ = e.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTolerance sets the rounding tolerance, in minor units, accepted
// between an entry balance and the sum of its installments.
func WithTolerance(minorUnits int64) Option {
	return func(e *Engine) {
		if minorUnits >= 0 {
			e.tolerance = minorUnits
		}
	}
}

// WithStatusRefreshInterval sets how often the background worker
// reclassifies open installments against the clock.
func WithStatusRefreshInterval(interval time.Duration) Option {
	return func(e *Engine) {
		if interval > 0 {
			e.refreshInterval = interval
		}
	}
}

// WithDefaultCurrency sets the currency assumed for entries created
// without one.
func WithDefaultCurrency(currency string) Option {
	return func(e *Engine) {
		e.defaultCurrency = strings.ToLower(currency)
	}
}

// WithClock overrides the time source. Used by tests to pin "now".
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// Start begins background workers.
func (e *Engine) Start(ctx context.Context) error {
	// Migrate database
	if err := e.store.Migrate(ctx); err != nil {
		return err
	}

	// Initialize plugins
	e.plugins.EmitInit(ctx, e)

	// Start status refresh worker
	e.wg.Add(1)
	go e.statusRefreshWorker(ctx)

	e.logger.Info("tally started",
		"tolerance", e.tolerance,
		"refresh_interval", e.refreshInterval,
	)

	return nil
}

// Stop shuts down the Engine.
func (e *Engine) Stop() error {
	close(e.stopChan)
	e.wg.Wait()

	ctx := context.Background()
	e.plugins.EmitShutdown(ctx)

	return e.store.Close()
}

// ──────────────────────────────────────────────────
// Entry Management
// ──────────────────────────────────────────────────

// CreateEntry creates an entry and generates its installment schedule.
// It returns validation warnings (back-dated due dates and the like)
// alongside any hard error.
func (e *Engine) CreateEntry(ctx context.Context, ent *entry.Entry, count int, firstDue time.Time) ([]entry.Warning, error) {
	if ent.ID.IsNil() {
		ent.ID = id.NewEntryID()
	}
	ent.Entity = types.NewEntity()
	e.normalizeCurrencies(ent)

	ent.TotalValue = ent.ComputeTotal()

	if err := ent.GenerateSchedule(count, firstDue); err != nil {
		return nil, err
	}

	warnings, err := ent.Validate(e.tolerance)
	if err != nil {
		return warnings, err
	}

	if err := e.store.CreateEntry(ctx, ent); err != nil {
		return warnings, err
	}

	e.plugins.EmitEntryCreated(ctx, ent)
	e.plugins.EmitScheduleGenerated(ctx, ent, count)

	e.logger.Debug("entry created",
		"entry_id", ent.ID,
		"kind", ent.Kind,
		"installments", count,
		"total", ent.TotalValue,
	)

	return warnings, nil
}

// GetEntry retrieves an entry by ID, installments included.
func (e *Engine) GetEntry(ctx context.Context, entryID id.EntryID) (*entry.Entry, error) {
	return e.store.GetEntry(ctx, entryID)
}

// ListEntries lists entries matching the given options.
func (e *Engine) ListEntries(ctx context.Context, opts entry.ListOpts) ([]*entry.Entry, error) {
	return e.store.ListEntries(ctx, opts)
}

// DeleteEntry removes an entry and its installments.
func (e *Engine) DeleteEntry(ctx context.Context, entryID id.EntryID) error {
	if err := e.store.DeleteEntry(ctx, entryID); err != nil {
		return err
	}
	e.plugins.EmitEntryDeleted(ctx, entryID.String())
	return nil
}

// UpdateHeader applies new header values to an entry, regenerating the
// schedule when the change is material and no manual edits stand in
// the way.
func (e *Engine) UpdateHeader(ctx context.Context, entryID id.EntryID, h entry.Header) (*entry.Entry, []entry.Warning, error) {
	ent, err := e.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	regenerated, err := ent.ApplyHeader(h)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := ent.Validate(e.tolerance)
	if err != nil {
		return nil, warnings, err
	}

	ent.Touch()
	if err := e.store.UpdateEntry(ctx, ent); err != nil {
		return nil, warnings, err
	}
	if err := e.store.UpsertInstallments(ctx, ent.ID, ent.Installments); err != nil {
		return nil, warnings, err
	}

	e.plugins.EmitEntryUpdated(ctx, ent)
	if regenerated {
		e.plugins.EmitScheduleGenerated(ctx, ent, len(ent.Regular()))
	}

	return ent, warnings, nil
}

// ──────────────────────────────────────────────────
// Installment Edits
// ──────────────────────────────────────────────────

// EditInstallmentAmount sets the expected amount of one regular
// installment and rebalances the rest of the schedule so the entry
// balance is preserved. The index addresses the regular installments
// only; a down payment row is never editable this way.
func (e *Engine) EditInstallmentAmount(ctx context.Context, entryID id.EntryID, index int, amount types.Money) (*entry.Entry, *entry.Warning, error) {
	ent, err := e.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	warning, err := ent.ApplyAmountEdit(index, amount, e.tolerance)
	if err != nil {
		return nil, nil, err
	}

	ent.Touch()
	if err := e.store.UpdateEntry(ctx, ent); err != nil {
		return nil, warning, err
	}
	if err := e.store.UpsertInstallments(ctx, ent.ID, ent.Installments); err != nil {
		return nil, warning, err
	}

	e.plugins.EmitInstallmentEdited(ctx, ent, index)
	if warning != nil {
		e.plugins.EmitRebalanceWarning(ctx, ent, *warning)
		e.logger.Warn("rebalance adjusted schedule",
			"entry_id", ent.ID,
			"index", index,
			"code", warning.Code,
		)
	}

	return ent, warning, nil
}

// EditInstallmentDueDate moves the due date of one regular installment.
func (e *Engine) EditInstallmentDueDate(ctx context.Context, entryID id.EntryID, index int, due time.Time) (*entry.Entry, *entry.Warning, error) {
	ent, err := e.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, nil, err
	}

	warning, err := ent.ApplyDueDateEdit(index, due)
	if err != nil {
		return nil, nil, err
	}

	ent.Touch()
	if err := e.store.UpdateEntry(ctx, ent); err != nil {
		return nil, warning, err
	}
	if err := e.store.UpsertInstallments(ctx, ent.ID, ent.Installments); err != nil {
		return nil, warning, err
	}

	e.plugins.EmitInstallmentEdited(ctx, ent, index)
	if warning != nil {
		e.plugins.EmitRebalanceWarning(ctx, ent, *warning)
	}

	return ent, warning, nil
}

// CancelInstallment marks an installment as canceled. Canceled rows
// keep their expected amount for the record but drop out of settlement
// and reconciliation math.
func (e *Engine) CancelInstallment(ctx context.Context, entryID id.EntryID, number int) (*entry.Entry, error) {
	ent, err := e.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	in := ent.FindInstallment(number)
	if in == nil {
		return nil, ErrInstallmentNotFound
	}
	if in.Canceled {
		return ent, nil
	}

	in.Canceled = true
	in.Status = entry.StatusCanceled
	in.Touch()

	ent.Touch()
	if err := e.store.UpdateEntry(ctx, ent); err != nil {
		return nil, err
	}
	if err := e.store.UpsertInstallments(ctx, ent.ID, ent.Installments); err != nil {
		return nil, err
	}

	e.plugins.EmitStatusChanged(ctx, ent.ID.String(), number, string(entry.StatusCanceled))
	return ent, nil
}

// ──────────────────────────────────────────────────
// Payments
// ──────────────────────────────────────────────────

// RegisterPayment records a payment against one installment,
// accumulates it into the installment's paid amount, and reclassifies
// the installment. Overpayment is allowed and settles the row.
func (e *Engine) RegisterPayment(ctx context.Context, entryID id.EntryID, number int, amount types.Money, paidAt time.Time, reference string) (*payment.Payment, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidPayment
	}

	ent, err := e.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	in := ent.FindInstallment(number)
	if in == nil {
		return nil, ErrInstallmentNotFound
	}
	if in.Canceled {
		return nil, ErrInstallmentCanceled
	}
	if amount.Currency != in.ExpectedAmount.Currency {
		return nil, ErrCurrencyMismatch
	}

	in.PaidAmount = in.PaidAmount.Add(amount)
	if in.PaidDate == nil || paidAt.After(*in.PaidDate) {
		in.PaidDate = &paidAt
	}

	now := e.clock()
	status, err := entry.Classify(in.ExpectedAmount, in.PaidAmount, in.DueDate, now, in.Canceled)
	if err != nil {
		return nil, err
	}
	statusChanged := in.Status != status
	in.Status = status
	in.Touch()

	ent.Touch()
	if err := e.store.UpdateEntry(ctx, ent); err != nil {
		return nil, err
	}
	if err := e.store.UpsertInstallments(ctx, ent.ID, ent.Installments); err != nil {
		return nil, err
	}

	p := &payment.Payment{
		Entity:            types.NewEntity(),
		ID:                id.NewPaymentID(),
		EntryID:           ent.ID,
		InstallmentID:     in.ID,
		InstallmentNumber: in.Number,
		Amount:            amount,
		PaidAt:            paidAt,
		Reference:         reference,
	}
	if err := e.store.RecordPayment(ctx, p); err != nil {
		return nil, err
	}

	e.plugins.EmitPaymentRegistered(ctx, p)
	if statusChanged {
		e.plugins.EmitStatusChanged(ctx, ent.ID.String(), in.Number, string(status))
		if status == entry.StatusPaid {
			e.plugins.EmitInstallmentSettled(ctx, ent.ID.String(), in.Number)
		}
	}
	if ent.IsSettled() {
		e.plugins.EmitEntrySettled(ctx, ent)
		e.logger.Info("entry settled",
			"entry_id", ent.ID,
			"paid", ent.PaidSum(),
		)
	}

	return p, nil
}

// ListPayments lists the payments recorded against an entry.
func (e *Engine) ListPayments(ctx context.Context, entryID id.EntryID, opts payment.ListOpts) ([]*payment.Payment, error) {
	return e.store.ListPayments(ctx, entryID, opts)
}

// ──────────────────────────────────────────────────
// Status Refresh
// ──────────────────────────────────────────────────

// RefreshStatuses reclassifies the installments of every open entry
// against the current clock and persists the ones that changed. It
// returns the number of installments whose status moved.
func (e *Engine) RefreshStatuses(ctx context.Context) (int, error) {
	entries, err := e.store.ListEntries(ctx, entry.ListOpts{OpenOnly: true})
	if err != nil {
		return 0, err
	}

	now := e.clock()
	total := 0

	for _, ent := range entries {
		changed, err := ent.Reclassify(now)
		if err != nil {
			return total, err
		}
		if len(changed) == 0 {
			continue
		}

		if err := e.store.UpsertInstallments(ctx, ent.ID, ent.Installments); err != nil {
			return total, err
		}

		for _, number := range changed {
			in := ent.FindInstallment(number)
			if in != nil {
				e.plugins.EmitStatusChanged(ctx, ent.ID.String(), number, string(in.Status))
			}
		}
		total += len(changed)
	}

	return total, nil
}

// statusRefreshWorker periodically reclassifies open installments so
// overdue transitions happen without caller traffic.
func (e *Engine) statusRefreshWorker(ctx context.Context) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			n, err := e.RefreshStatuses(ctx)
			if err != nil {
				e.logger.Error("status refresh failed", "error", err)
				continue
			}
			if n > 0 {
				e.logger.Debug("status refresh", "changed", n)
			}
		}
	}
}

// ──────────────────────────────────────────────────
// Reconciliation
// ──────────────────────────────────────────────────

// Summarize builds a reconciliation summary over the rows matching the
// filter. Header figures are counted once per entry regardless of how
// many installment rows the entry contributes.
func (e *Engine) Summarize(ctx context.Context, filter report.Filter) (*report.Summary, error) {
	rows, err := e.store.ListRows(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := report.Summarize(rows)
	e.plugins.EmitSummaryComputed(ctx, &summary)

	return &summary, nil
}

// ValidateEntry re-runs schedule validation for an entry as stored.
func (e *Engine) ValidateEntry(ctx context.Context, entryID id.EntryID) ([]entry.Warning, error) {
	ent, err := e.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return ent.Validate(e.tolerance)
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// normalizeCurrencies fills zero-value Money fields with the entry
// currency so downstream arithmetic never mixes a typed amount with an
// untyped zero.
func (e *Engine) normalizeCurrencies(ent *entry.Entry) {
	if ent.Currency == "" {
		ent.Currency = ent.DocumentValue.Currency
	}
	if ent.Currency == "" {
		ent.Currency = e.defaultCurrency
	}
	ent.Currency = strings.ToLower(ent.Currency)

	fix := func(m *types.Money) {
		if m.Currency == "" {
			m.Currency = ent.Currency
		}
	}
	fix(&ent.DocumentValue)
	fix(&ent.Discount)
	fix(&ent.Interest)
	fix(&ent.DownPayment)
	fix(&ent.TotalValue)
}
