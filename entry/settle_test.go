package entry

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/tally/types"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 10)

	tests := []struct {
		name     string
		expected int64
		paid     int64
		due      time.Time
		canceled bool
		want     Status
	}{
		{"Nothing paid before due", 50000, 0, future, false, StatusPending},
		{"Nothing paid after due", 50000, 0, past, false, StatusOverdue},
		{"Partial payment before due", 50000, 20000, future, false, StatusPartiallyPaid},
		{"Partial payment after due stays partial", 50000, 20000, past, false, StatusPartiallyPaid},
		{"Exact payment", 50000, 50000, past, false, StatusPaid},
		{"Overpayment settles", 50000, 60000, future, false, StatusPaid},
		{"Canceled wins over everything", 50000, 50000, past, true, StatusCanceled},
		{"Zero expected nothing paid before due", 0, 0, future, false, StatusPending},
		{"Zero expected nothing paid after due", 0, 0, past, false, StatusOverdue},
		{"Due exactly now is not overdue", 50000, 0, now, false, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(types.BRL(tt.expected), types.BRL(tt.paid), tt.due, now, tt.canceled)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyNegativePaid(t *testing.T) {
	now := time.Now()
	if _, err := Classify(types.BRL(100), types.BRL(-1), now, now, false); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestReclassify(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	e := testEntry(t, 50000, 50000, 50000)
	e.Installments[0].DueDate = now.AddDate(0, 0, -5) // becomes overdue
	e.Installments[1].DueDate = now.AddDate(0, 0, 5)
	e.Installments[2].DueDate = now.AddDate(0, 1, 5)
	e.Installments[1].PaidAmount = types.BRL(50000) // becomes paid

	changed, err := e.Reclassify(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 2 {
		t.Fatalf("expected 2 changes, got %v", changed)
	}
	if e.Installments[0].Status != StatusOverdue {
		t.Errorf("expected overdue, got %s", e.Installments[0].Status)
	}
	if e.Installments[1].Status != StatusPaid {
		t.Errorf("expected paid, got %s", e.Installments[1].Status)
	}
	if e.Installments[2].Status != StatusPending {
		t.Errorf("expected pending, got %s", e.Installments[2].Status)
	}

	// Stable on a second pass
	changed, err = e.Reclassify(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(changed) != 0 {
		t.Errorf("expected no changes on second pass, got %v", changed)
	}
}

func TestIsSettled(t *testing.T) {
	e := testEntry(t, 50000, 50000)
	if e.IsSettled() {
		t.Error("fresh entry must not be settled")
	}

	e.Installments[0].PaidAmount = types.BRL(50000)
	e.Installments[0].Status = StatusPaid
	if e.IsSettled() {
		t.Error("half-paid entry must not be settled")
	}

	e.Installments[1].Canceled = true
	e.Installments[1].Status = StatusCanceled
	if !e.IsSettled() {
		t.Error("paid-or-canceled entry must be settled")
	}
}
