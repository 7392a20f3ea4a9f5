package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	tally "github.com/xraph/tally"
	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/report"
	tallystore "github.com/xraph/tally/store"
)

// compile-time interface check
var _ tallystore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("tally/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("tally/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Entry Store ====================

func (s *Store) CreateEntry(ctx context.Context, e *entry.Entry) error {
	m := toEntryModel(e)
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return err
	}
	for i := range e.Installments {
		im := toInstallmentModel(&e.Installments[i])
		if _, err := s.sdb.NewInsert(im).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, entryID id.EntryID) (*entry.Entry, error) {
	m := new(entryModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", entryID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, tally.ErrEntryNotFound
		}
		return nil, err
	}

	e, err := fromEntryModel(m)
	if err != nil {
		return nil, err
	}
	e.Installments, err = s.loadInstallments(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, opts entry.ListOpts) ([]*entry.Entry, error) {
	var models []entryModel
	q := s.sdb.NewSelect(&models)
	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	q = q.OrderExpr("created_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*entry.Entry, 0, len(models))
	for i := range models {
		e, err := fromEntryModel(&models[i])
		if err != nil {
			return nil, err
		}
		e.Installments, err = s.loadInstallments(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if !matchesListOpts(e, opts) {
			continue
		}
		result = append(result, e)
	}

	return sliceWindow(result, opts.Offset, opts.Limit), nil
}

func (s *Store) UpdateEntry(ctx context.Context, e *entry.Entry) error {
	m := toEntryModel(e)
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tally.ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID id.EntryID) error {
	res, err := s.sdb.NewDelete((*entryModel)(nil)).
		Where("id = ?", entryID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return tally.ErrEntryNotFound
	}

	if _, err := s.sdb.NewDelete((*installmentModel)(nil)).
		Where("entry_id = ?", entryID.String()).
		Exec(ctx); err != nil {
		return err
	}
	_, err = s.sdb.NewDelete((*paymentModel)(nil)).
		Where("entry_id = ?", entryID.String()).
		Exec(ctx)
	return err
}

// ==================== Installment Store ====================

func (s *Store) UpsertInstallments(ctx context.Context, entryID id.EntryID, installments []entry.Installment) error {
	var existing []installmentModel
	err := s.sdb.NewSelect(&existing).
		Where("entry_id = ?", entryID.String()).
		Scan(ctx)
	if err != nil && !isNoRows(err) {
		return err
	}

	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.ID] = true
	}

	for i := range installments {
		m := toInstallmentModel(&installments[i])
		if known[m.ID] {
			m.UpdatedAt = now()
			if _, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx); err != nil {
				return err
			}
			delete(known, m.ID)
		} else {
			if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
				return err
			}
		}
	}

	for staleID := range known {
		if _, err := s.sdb.NewDelete((*installmentModel)(nil)).
			Where("id = ?", staleID).
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetInstallments(ctx context.Context, entryID id.EntryID) ([]entry.Installment, error) {
	return s.loadInstallments(ctx, entryID)
}

func (s *Store) loadInstallments(ctx context.Context, entryID id.EntryID) ([]entry.Installment, error) {
	var models []installmentModel
	err := s.sdb.NewSelect(&models).
		Where("entry_id = ?", entryID.String()).
		OrderExpr("number ASC").
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	result := make([]entry.Installment, len(models))
	for i := range models {
		in, err := fromInstallmentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = in
	}
	return result, nil
}

// ==================== Payment Store ====================

func (s *Store) RecordPayment(ctx context.Context, p *payment.Payment) error {
	m := toPaymentModel(p)
	_, err := s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) ListPayments(ctx context.Context, entryID id.EntryID, opts payment.ListOpts) ([]*payment.Payment, error) {
	var models []paymentModel
	q := s.sdb.NewSelect(&models).Where("entry_id = ?", entryID.String())

	if !opts.Since.IsZero() {
		q = q.Where("paid_at >= ?", opts.Since)
	}
	if !opts.Until.IsZero() {
		q = q.Where("paid_at <= ?", opts.Until)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("paid_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*payment.Payment, len(models))
	for i := range models {
		p, err := fromPaymentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

// ==================== Reconciliation Store ====================

func (s *Store) ListRows(ctx context.Context, filter report.Filter) ([]report.Row, error) {
	entries, err := s.ListEntries(ctx, entry.ListOpts{Kind: filter.Kind})
	if err != nil {
		return nil, err
	}
	return flattenRows(entries, filter), nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func matchesListOpts(e *entry.Entry, opts entry.ListOpts) bool {
	if opts.OpenOnly && e.IsSettled() {
		return false
	}
	if !opts.DueBefore.IsZero() {
		match := false
		for _, in := range e.Installments {
			if !in.Canceled && in.DueDate.Before(opts.DueBefore) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func sliceWindow[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func flattenRows(entries []*entry.Entry, filter report.Filter) []report.Row {
	rows := make([]report.Row, 0)
	for _, e := range entries {
		for _, in := range e.Installments {
			if in.Canceled {
				continue
			}
			if filter.Status != "" && in.Status != filter.Status {
				continue
			}
			if !filter.DueAfter.IsZero() && in.DueDate.Before(filter.DueAfter) {
				continue
			}
			if !filter.DueBefore.IsZero() && !in.DueDate.Before(filter.DueBefore) {
				continue
			}
			rows = append(rows, report.Row{
				EntryID:           e.ID,
				Kind:              e.Kind,
				DocumentValue:     e.DocumentValue,
				Discount:          e.Discount,
				InstallmentNumber: in.Number,
				DueDate:           in.DueDate,
				ExpectedAmount:    in.ExpectedAmount,
				PaidAmount:        in.PaidAmount,
				Status:            in.Status,
			})
		}
	}
	return rows
}
