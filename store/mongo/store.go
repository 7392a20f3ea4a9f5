package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	tally "github.com/xraph/tally"
	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/report"
	tallystore "github.com/xraph/tally/store"
)

// Collection name constants.
const (
	colEntries      = "tally_entries"
	colInstallments = "tally_installments"
	colPayments     = "tally_payments"
)

// compile-time interface check
var _ tallystore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all tally collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("tally/mongo: migrate %s indexes: %w", col, err)
		}
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tally.ErrAlreadyExists
		}
		return fmt.Errorf("tally/mongo: create entry: %w", err)
	}
	for i := range e.Installments {
		im := toInstallmentModel(&e.Installments[i])
		if _, err := s.mdb.NewInsert(im).Exec(ctx); err != nil {
			return fmt.Errorf("tally/mongo: create installment: %w", err)
		}
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, entryID id.EntryID) (*entry.Entry, error) {
	var m entryModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": entryID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, tally.ErrEntryNotFound
		}
		return nil, fmt.Errorf("tally/mongo: get entry: %w", err)
	}

	e, err := fromEntryModel(&m)
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
	filter := bson.M{}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}

	var models []entryModel
	err := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: 1}}).
		Scan(ctx)
	if err != nil && !isNoDocuments(err) {
		return nil, fmt.Errorf("tally/mongo: list entries: %w", err)
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

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tally/mongo: update entry: %w", err)
	}
	if res.MatchedCount() == 0 {
		return tally.ErrEntryNotFound
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID id.EntryID) error {
	res, err := s.mdb.NewDelete((*entryModel)(nil)).
		Filter(bson.M{"_id": entryID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tally/mongo: delete entry: %w", err)
	}
	if res.DeletedCount() == 0 {
		return tally.ErrEntryNotFound
	}

	if _, err := s.mdb.NewDelete((*installmentModel)(nil)).
		Filter(bson.M{"entry_id": entryID.String()}).
		Exec(ctx); err != nil {
		return fmt.Errorf("tally/mongo: delete installments: %w", err)
	}
	if _, err := s.mdb.NewDelete((*paymentModel)(nil)).
		Filter(bson.M{"entry_id": entryID.String()}).
		Exec(ctx); err != nil {
		return fmt.Errorf("tally/mongo: delete payments: %w", err)
	}
	return nil
}

// ==================== Installment Store ====================

func (s *Store) UpsertInstallments(ctx context.Context, entryID id.EntryID, installments []entry.Installment) error {
	var existing []installmentModel
	err := s.mdb.NewFind(&existing).
		Filter(bson.M{"entry_id": entryID.String()}).
		Scan(ctx)
	if err != nil && !isNoDocuments(err) {
		return fmt.Errorf("tally/mongo: load installments: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.ID] = true
	}

	for i := range installments {
		m := toInstallmentModel(&installments[i])
		if known[m.ID] {
			m.UpdatedAt = now()
			if _, err := s.mdb.NewUpdate(m).
				Filter(bson.M{"_id": m.ID}).
				Exec(ctx); err != nil {
				return fmt.Errorf("tally/mongo: update installment: %w", err)
			}
			delete(known, m.ID)
		} else {
			if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
				return fmt.Errorf("tally/mongo: insert installment: %w", err)
			}
		}
	}

	for staleID := range known {
		if _, err := s.mdb.NewDelete((*installmentModel)(nil)).
			Filter(bson.M{"_id": staleID}).
			Exec(ctx); err != nil {
			return fmt.Errorf("tally/mongo: delete installment: %w", err)
		}
	}
	return nil
}

func (s *Store) GetInstallments(ctx context.Context, entryID id.EntryID) ([]entry.Installment, error) {
	return s.loadInstallments(ctx, entryID)
}

func (s *Store) loadInstallments(ctx context.Context, entryID id.EntryID) ([]entry.Installment, error) {
	var models []installmentModel
	err := s.mdb.NewFind(&models).
		Filter(bson.M{"entry_id": entryID.String()}).
		Sort(bson.D{{Key: "number", Value: 1}}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("tally/mongo: load installments: %w", err)
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("tally/mongo: record payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context, entryID id.EntryID, opts payment.ListOpts) ([]*payment.Payment, error) {
	filter := bson.M{"entry_id": entryID.String()}

	paidAt := bson.M{}
	if !opts.Since.IsZero() {
		paidAt["$gte"] = opts.Since
	}
	if !opts.Until.IsZero() {
		paidAt["$lte"] = opts.Until
	}
	if len(paidAt) > 0 {
		filter["paid_at"] = paidAt
	}

	var models []paymentModel
	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "paid_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil && !isNoDocuments(err) {
		return nil, fmt.Errorf("tally/mongo: list payments: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
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

// migrationIndexes returns the index definitions for all tally collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colEntries: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colInstallments: {
			{
				Keys:    bson.D{{Key: "entry_id", Value: 1}, {Key: "number", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "due_date", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "entry_id", Value: 1}, {Key: "status", Value: 1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "entry_id", Value: 1}, {Key: "paid_at", Value: 1}}},
			{Keys: bson.D{{Key: "installment_id", Value: 1}}},
		},
	}
}
