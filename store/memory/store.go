// Package memory provides an in-memory store for testing and demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xraph/tally"
	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/id"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/report"
	"github.com/xraph/tally/store"
)

type Store struct {
	mu sync.RWMutex

	// Entry storage, keyed by entry ID. Installments live inside the
	// entry, same as the wire shape.
	entries map[string]*entry.Entry

	// Payment storage, append-only per entry
	payments map[string][]*payment.Payment
}

func New() *Store {
	return &Store{
		entries:  make(map[string]*entry.Entry),
		payments: make(map[string][]*payment.Payment),
	}
}

// Entry Store implementation

func (s *Store) CreateEntry(_ context.Context, e *entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.ID.String()]; exists {
		return tally.ErrAlreadyExists
	}
	s.entries[e.ID.String()] = cloneEntry(e)
	return nil
}

func (s *Store) GetEntry(_ context.Context, entryID id.EntryID) (*entry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[entryID.String()]; ok {
		return cloneEntry(e), nil
	}
	return nil, tally.ErrEntryNotFound
}

func (s *Store) ListEntries(_ context.Context, opts entry.ListOpts) ([]*entry.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entry.Entry, 0)
	for _, e := range s.entries {
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if opts.OpenOnly && e.IsSettled() {
			continue
		}
		if !opts.DueBefore.IsZero() && !anyDueBefore(e, opts.DueBefore) {
			continue
		}
		result = append(result, cloneEntry(e))
	}

	// Map iteration order is random; callers expect stable listings.
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateEntry(_ context.Context, e *entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.ID.String()]; !exists {
		return tally.ErrEntryNotFound
	}
	s.entries[e.ID.String()] = cloneEntry(e)
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, entryID id.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entryID.String()]; !exists {
		return tally.ErrEntryNotFound
	}
	delete(s.entries, entryID.String())
	delete(s.payments, entryID.String())
	return nil
}

// Installment Store implementation

func (s *Store) UpsertInstallments(_ context.Context, entryID id.EntryID, installments []entry.Installment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[entryID.String()]
	if !exists {
		return tally.ErrEntryNotFound
	}

	// Callers always pass the full schedule; the incoming rows replace
	// the stored ones wholesale, preserving row identity via their IDs.
	e.Installments = make([]entry.Installment, len(installments))
	copy(e.Installments, installments)

	sort.Slice(e.Installments, func(i, j int) bool {
		return e.Installments[i].Number < e.Installments[j].Number
	})
	return nil
}

func (s *Store) GetInstallments(_ context.Context, entryID id.EntryID) ([]entry.Installment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[entryID.String()]
	if !exists {
		return nil, tally.ErrEntryNotFound
	}

	result := make([]entry.Installment, len(e.Installments))
	copy(result, e.Installments)
	return result, nil
}

// Payment Store implementation

func (s *Store) RecordPayment(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.EntryID.String()
	cp := *p
	s.payments[key] = append(s.payments[key], &cp)
	return nil
}

func (s *Store) ListPayments(_ context.Context, entryID id.EntryID, opts payment.ListOpts) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*payment.Payment, 0)
	for _, p := range s.payments[entryID.String()] {
		if !opts.Since.IsZero() && p.PaidAt.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && p.PaidAt.After(opts.Until) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Reconciliation Store implementation

func (s *Store) ListRows(_ context.Context, filter report.Filter) ([]report.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]report.Row, 0)
	for _, e := range s.entries {
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
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

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EntryID.String() != rows[j].EntryID.String() {
			return rows[i].EntryID.String() < rows[j].EntryID.String()
		}
		return rows[i].InstallmentNumber < rows[j].InstallmentNumber
	})

	return rows, nil
}

// Core Store implementation

func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Helpers

func cloneEntry(e *entry.Entry) *entry.Entry {
	cp := *e
	cp.Installments = make([]entry.Installment, len(e.Installments))
	copy(cp.Installments, e.Installments)
	if e.Metadata != nil {
		cp.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}

func anyDueBefore(e *entry.Entry, cutoff time.Time) bool {
	for _, in := range e.Installments {
		if !in.Canceled && in.DueDate.Before(cutoff) {
			return true
		}
	}
	return false
}

// Verify interface compliance at compile time
var _ store.Store = (*Store)(nil)
