package entry

import (
	"errors"
	"testing"
	"time"

	"github.com/xraph/tally/id"
	"github.com/xraph/tally/types"
)

// testEntry builds an entry whose regular installments carry the given
// amounts and whose header matches their sum.
func testEntry(t *testing.T, amounts ...int64) *Entry {
	t.Helper()

	total := int64(0)
	for _, a := range amounts {
		total += a
	}

	e := &Entry{
		Entity:        types.NewEntity(),
		ID:            id.NewEntryID(),
		Kind:          KindReceivable,
		Currency:      "brl",
		DocumentValue: types.BRL(total),
		Discount:      types.Zero("brl"),
		Interest:      types.Zero("brl"),
		TotalValue:    types.BRL(total),
		DownPayment:   types.Zero("brl"),
		IssueDate:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	for i, a := range amounts {
		e.Installments = append(e.Installments, Installment{
			Entity:         types.NewEntity(),
			ID:             id.NewInstallmentID(),
			EntryID:        e.ID,
			Number:         i + 1,
			DueDate:        e.IssueDate.AddDate(0, i+1, 0),
			ExpectedAmount: types.BRL(a),
			PaidAmount:     types.Zero("brl"),
			Status:         StatusPending,
		})
	}
	return e
}

func amounts(e *Entry) []int64 {
	out := make([]int64, 0, len(e.Regular()))
	for _, in := range e.Regular() {
		out = append(out, in.ExpectedAmount.Amount)
	}
	return out
}

func equalAmounts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApplyAmountEdit(t *testing.T) {
	tests := []struct {
		name     string
		initial  []int64
		index    int
		amount   int64
		want     []int64
		wantCode WarningCode // empty means no warning
	}{
		{
			name:     "First installment raised, last absorbs",
			initial:  []int64{50000, 50000, 50000},
			index:    0,
			amount:   60000,
			want:     []int64{60000, 50000, 40000},
			wantCode: WarnLastAdjusted,
		},
		{
			name:     "Middle installment lowered, last absorbs",
			initial:  []int64{50000, 50000, 50000},
			index:    1,
			amount:   30000,
			want:     []int64{50000, 30000, 70000},
			wantCode: WarnLastAdjusted,
		},
		{
			name:     "Unchanged amount leaves schedule intact",
			initial:  []int64{50000, 50000, 50000},
			index:    1,
			amount:   50000,
			want:     []int64{50000, 50000, 50000},
			wantCode: "",
		},
		{
			name:     "Absorption past zero clamps the last installment",
			initial:  []int64{10000, 10000},
			index:    0,
			amount:   30000,
			want:     []int64{30000, 0},
			wantCode: WarnClampedToZero,
		},
		{
			name:     "Last installment edit beyond tolerance is reverted",
			initial:  []int64{50000, 50000, 50000},
			index:    2,
			amount:   70000,
			want:     []int64{50000, 50000, 50000},
			wantCode: WarnEditReverted,
		},
		{
			name:     "Last installment edit within tolerance stands",
			initial:  []int64{33333, 33333, 33334},
			index:    2,
			amount:   33333,
			want:     []int64{33333, 33333, 33333},
			wantCode: "",
		},
		{
			name:     "Single installment edit is reverted",
			initial:  []int64{100000},
			index:    0,
			amount:   65000,
			want:     []int64{100000},
			wantCode: WarnEditReverted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEntry(t, tt.initial...)

			warning, err := e.ApplyAmountEdit(tt.index, types.BRL(tt.amount), DefaultTolerance)
			if err != nil {
				t.Fatal(err)
			}

			if got := amounts(e); !equalAmounts(got, tt.want) {
				t.Errorf("amounts: expected %v, got %v", tt.want, got)
			}

			switch {
			case tt.wantCode == "" && warning != nil:
				t.Errorf("expected no warning, got %s", warning.Code)
			case tt.wantCode != "" && warning == nil:
				t.Errorf("expected warning %s, got none", tt.wantCode)
			case tt.wantCode != "" && warning.Code != tt.wantCode:
				t.Errorf("expected warning %s, got %s", tt.wantCode, warning.Code)
			}

			if !e.ManuallyEdited {
				t.Error("expected ManuallyEdited to be set")
			}
		})
	}
}

func TestApplyAmountEditRevertedCarriesRequired(t *testing.T) {
	e := testEntry(t, 50000, 50000, 50000)

	warning, err := e.ApplyAmountEdit(2, types.BRL(70000), DefaultTolerance)
	if err != nil {
		t.Fatal(err)
	}
	if warning == nil || warning.Code != WarnEditReverted {
		t.Fatalf("expected WarnEditReverted, got %v", warning)
	}
	if warning.Required.Amount != 50000 {
		t.Errorf("expected required amount 50000, got %d", warning.Required.Amount)
	}
}

func TestApplyAmountEditSkipsDownPayment(t *testing.T) {
	// Index 0 addresses the first regular installment even when a down
	// payment row sits in front of it.
	e := testEntry(t, 50000, 50000, 50000)
	e.DownPayment = types.BRL(30000)
	e.DocumentValue = types.BRL(180000)
	e.TotalValue = types.BRL(180000)
	down := Installment{
		Entity:         types.NewEntity(),
		ID:             id.NewInstallmentID(),
		EntryID:        e.ID,
		Number:         DownPaymentNumber,
		DueDate:        e.IssueDate,
		ExpectedAmount: types.BRL(30000),
		PaidAmount:     types.Zero("brl"),
		Status:         StatusPending,
	}
	e.Installments = append([]Installment{down}, e.Installments...)

	if _, err := e.ApplyAmountEdit(0, types.BRL(60000), DefaultTolerance); err != nil {
		t.Fatal(err)
	}

	if got := e.Installments[0].ExpectedAmount.Amount; got != 30000 {
		t.Errorf("down payment touched: expected 30000, got %d", got)
	}
	if got := amounts(e); !equalAmounts(got, []int64{60000, 50000, 40000}) {
		t.Errorf("expected [60000 50000 40000], got %v", got)
	}
}

func TestApplyAmountEditErrors(t *testing.T) {
	e := testEntry(t, 50000, 50000)

	if _, err := e.ApplyAmountEdit(0, types.BRL(-1), DefaultTolerance); !errors.Is(err, ErrInvalidBalance) {
		t.Errorf("negative amount: expected ErrInvalidBalance, got %v", err)
	}
	if _, err := e.ApplyAmountEdit(5, types.BRL(100), DefaultTolerance); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("out of range: expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := e.ApplyAmountEdit(-1, types.BRL(100), DefaultTolerance); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative index: expected ErrIndexOutOfRange, got %v", err)
	}

	e.Installments[0].Canceled = true
	if _, err := e.ApplyAmountEdit(0, types.BRL(100), DefaultTolerance); !errors.Is(err, ErrInstallmentCanceled) {
		t.Errorf("canceled row: expected ErrInstallmentCanceled, got %v", err)
	}

	// Rejected edits must not mutate the schedule
	if e.ManuallyEdited {
		t.Error("rejected edits must not mark the entry edited")
	}
}

func TestApplyDueDateEdit(t *testing.T) {
	e := testEntry(t, 50000, 50000)

	due := e.IssueDate.AddDate(0, 3, 0)
	warning, err := e.ApplyDueDateEdit(1, due)
	if err != nil {
		t.Fatal(err)
	}
	if warning != nil {
		t.Errorf("expected no warning, got %s", warning.Code)
	}
	if !e.Regular()[1].DueDate.Equal(due) {
		t.Errorf("due date not applied")
	}
	if !e.ManuallyEdited {
		t.Error("expected ManuallyEdited to be set")
	}
}

func TestApplyDueDateEditBackDated(t *testing.T) {
	e := testEntry(t, 50000, 50000)

	warning, err := e.ApplyDueDateEdit(0, e.IssueDate.AddDate(0, 0, -5))
	if err != nil {
		t.Fatal(err)
	}
	if warning == nil || warning.Code != WarnBackDatedDue {
		t.Fatalf("expected WarnBackDatedDue, got %v", warning)
	}
	// The edit still stands; the warning is informational.
	if !e.Regular()[0].DueDate.Before(e.IssueDate) {
		t.Error("expected back-dated due date to be applied")
	}
}
