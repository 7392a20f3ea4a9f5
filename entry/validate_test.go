package entry

import (
	"errors"
	"testing"

	"github.com/xraph/tally/types"
)

func TestValidate(t *testing.T) {
	t.Run("Balanced entry passes", func(t *testing.T) {
		e := testEntry(t, 50000, 50000, 50000)
		warnings, err := e.Validate(DefaultTolerance)
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("Rounding unit within tolerance passes", func(t *testing.T) {
		e := testEntry(t, 33333, 33333, 33333)
		e.DocumentValue = types.BRL(100000)
		e.TotalValue = types.BRL(100000)
		if _, err := e.Validate(DefaultTolerance); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Imbalance beyond tolerance fails with figures", func(t *testing.T) {
		e := testEntry(t, 50000, 50000, 50000)
		e.Installments[2].ExpectedAmount = types.BRL(40000)

		_, err := e.Validate(DefaultTolerance)
		if !errors.Is(err, ErrImbalancedInstallments) {
			t.Fatalf("expected ErrImbalancedInstallments, got %v", err)
		}
		var imb *ImbalanceError
		if !errors.As(err, &imb) {
			t.Fatal("expected *ImbalanceError")
		}
		if imb.Expected != 150000 || imb.Actual != 140000 {
			t.Errorf("expected figures 150000/140000, got %d/%d", imb.Expected, imb.Actual)
		}
	})

	t.Run("Stale total value fails", func(t *testing.T) {
		e := testEntry(t, 50000, 50000, 50000)
		e.Discount = types.BRL(10000)

		if _, err := e.Validate(DefaultTolerance); !errors.Is(err, ErrImbalancedInstallments) {
			t.Errorf("expected ErrImbalancedInstallments, got %v", err)
		}
	})

	t.Run("Negative header field fails", func(t *testing.T) {
		e := testEntry(t, 50000)
		e.Discount = types.BRL(-1)

		if _, err := e.Validate(DefaultTolerance); !errors.Is(err, ErrInvalidBalance) {
			t.Errorf("expected ErrInvalidBalance, got %v", err)
		}
	})

	t.Run("Down payment beyond total fails", func(t *testing.T) {
		e := testEntry(t, 50000)
		e.DownPayment = types.BRL(60000)

		if _, err := e.Validate(DefaultTolerance); !errors.Is(err, ErrDownPaymentExceedsTotal) {
			t.Errorf("expected ErrDownPaymentExceedsTotal, got %v", err)
		}
	})

	t.Run("Back-dated due date warns without failing", func(t *testing.T) {
		e := testEntry(t, 50000, 50000)
		e.Installments[0].DueDate = e.IssueDate.AddDate(0, 0, -1)

		warnings, err := e.Validate(DefaultTolerance)
		if err != nil {
			t.Fatal(err)
		}
		if len(warnings) != 1 || warnings[0].Code != WarnBackDatedDue {
			t.Errorf("expected one WarnBackDatedDue, got %v", warnings)
		}
		if warnings[0].Index != 0 {
			t.Errorf("expected warning index 0, got %d", warnings[0].Index)
		}
	})

	t.Run("Entry without installments passes header checks", func(t *testing.T) {
		e := testEntry(t)
		e.DocumentValue = types.BRL(100000)
		e.TotalValue = types.BRL(100000)

		if _, err := e.Validate(DefaultTolerance); err != nil {
			t.Fatal(err)
		}
	})
}

func TestValidateIdempotent(t *testing.T) {
	e := testEntry(t, 33333, 33333, 33334)

	first, err := e.Validate(DefaultTolerance)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Validate(DefaultTolerance)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Errorf("validation not stable: %v then %v", first, second)
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		doc      int64
		discount int64
		interest int64
		want     int64
	}{
		{"Plain document", 100000, 0, 0, 100000},
		{"Discount applied", 100000, 20000, 0, 80000},
		{"Interest added", 100000, 0, 5000, 105000},
		{"Both", 100000, 20000, 5000, 85000},
		{"Discount beyond document clamps to interest", 100000, 150000, 5000, 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{
				Currency:      "brl",
				DocumentValue: types.BRL(tt.doc),
				Discount:      types.BRL(tt.discount),
				Interest:      types.BRL(tt.interest),
			}
			if got := e.ComputeTotal().Amount; got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
