package tally_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/tally"
	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/report"
	"github.com/xraph/tally/store/memory"
)

var (
	testIssue = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	testNow   = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func newTestEngine() *tally.Engine {
	return tally.New(memory.New(),
		tally.WithClock(func() time.Time { return testNow }),
	)
}

func newTestEntry() *entry.Entry {
	return &entry.Entry{
		Kind:          entry.KindReceivable,
		Currency:      "brl",
		Description:   "test contract",
		DocumentValue: tally.BRL(150000),
		IssueDate:     testIssue,
	}
}

func TestCreateEntry(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	warnings, err := eng.CreateEntry(ctx, ent, 3, testIssue.AddDate(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if ent.ID.IsNil() {
		t.Error("expected entry ID to be assigned")
	}
	if len(ent.Installments) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(ent.Installments))
	}
	for i, in := range ent.Installments {
		if in.ExpectedAmount.Amount != 50000 {
			t.Errorf("installment %d: expected 50000, got %d", i, in.ExpectedAmount.Amount)
		}
		if in.Status != entry.StatusPending {
			t.Errorf("installment %d: expected pending, got %s", i, in.Status)
		}
	}

	// Round-trip through the store
	got, err := eng.GetEntry(ctx, ent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TotalValue.Equal(tally.BRL(150000)) {
		t.Errorf("expected total 150000, got %d", got.TotalValue.Amount)
	}
}

func TestCreateEntryWithDownPayment(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	ent.DownPayment = tally.BRL(30000)

	if _, err := eng.CreateEntry(ctx, ent, 4, testIssue.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	if len(ent.Installments) != 5 {
		t.Fatalf("expected 5 rows (down payment + 4), got %d", len(ent.Installments))
	}
	down := ent.Installments[0]
	if !down.IsDownPayment() {
		t.Error("expected first row to be the down payment")
	}
	if !down.ExpectedAmount.Equal(tally.BRL(30000)) {
		t.Errorf("expected down payment 30000, got %d", down.ExpectedAmount.Amount)
	}
	if !down.DueDate.Equal(testIssue) {
		t.Errorf("expected down payment due on issue date, got %s", down.DueDate)
	}
	for _, in := range ent.Regular() {
		if in.ExpectedAmount.Amount != 30000 {
			t.Errorf("installment %d: expected 30000, got %d", in.Number, in.ExpectedAmount.Amount)
		}
	}
}

func TestCreateEntryDefaultCurrency(t *testing.T) {
	ctx := context.Background()
	eng := tally.New(memory.New(),
		tally.WithClock(func() time.Time { return testNow }),
		tally.WithDefaultCurrency("USD"),
	)

	ent := &entry.Entry{
		Kind:          entry.KindReceivable,
		Description:   "no currency set",
		DocumentValue: tally.Money{Amount: 10000},
		IssueDate:     testIssue,
	}
	if _, err := eng.CreateEntry(ctx, ent, 2, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	if ent.Currency != "usd" {
		t.Errorf("expected currency usd, got %q", ent.Currency)
	}
	if got := ent.TotalValue; got.Currency != "usd" || got.Amount != 10000 {
		t.Errorf("expected total 10000 usd, got %d %s", got.Amount, got.Currency)
	}
	for i, in := range ent.Installments {
		if in.ExpectedAmount.Currency != "usd" {
			t.Errorf("installment %d: expected usd, got %q", i, in.ExpectedAmount.Currency)
		}
	}
}

func TestCreateEntryInvalidCount(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	_, err := eng.CreateEntry(ctx, ent, 0, testIssue.AddDate(0, 1, 0))
	if !errors.Is(err, tally.ErrInvalidCount) {
		t.Errorf("expected ErrInvalidCount, got %v", err)
	}
}

func TestUpdateHeaderRegenerates(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 3, testIssue.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	originalIDs := make([]string, len(ent.Installments))
	for i, in := range ent.Installments {
		originalIDs[i] = in.ID.String()
	}

	// Change the document value; same count, so row IDs must survive.
	updated, _, err := eng.UpdateHeader(ctx, ent.ID, entry.Header{
		DocumentValue: tally.BRL(180000),
		Discount:      tally.Zero("brl"),
		Interest:      tally.Zero("brl"),
		DownPayment:   tally.Zero("brl"),
		IssueDate:     testIssue,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := updated.Installments[0].ExpectedAmount.Amount; got != 60000 {
		t.Errorf("expected regenerated amount 60000, got %d", got)
	}
	for i, in := range updated.Installments {
		if in.ID.String() != originalIDs[i] {
			t.Errorf("installment %d: ID changed across regeneration", i)
		}
	}
}

func TestUpdateHeaderPreservesManualEdits(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 3, testIssue.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := eng.EditInstallmentAmount(ctx, ent.ID, 0, tally.BRL(60000)); err != nil {
		t.Fatal(err)
	}

	// Issue-date-only change is immaterial; edited schedule survives.
	updated, _, err := eng.UpdateHeader(ctx, ent.ID, entry.Header{
		DocumentValue: tally.BRL(150000),
		Discount:      tally.Zero("brl"),
		Interest:      tally.Zero("brl"),
		DownPayment:   tally.Zero("brl"),
		IssueDate:     testIssue.AddDate(0, 0, 5),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := updated.Installments[0].ExpectedAmount.Amount; got != 60000 {
		t.Errorf("expected manual edit preserved (60000), got %d", got)
	}

	// A count change is structural and overrides manual edits.
	updated, _, err = eng.UpdateHeader(ctx, ent.ID, entry.Header{
		DocumentValue: tally.BRL(150000),
		Discount:      tally.Zero("brl"),
		Interest:      tally.Zero("brl"),
		DownPayment:   tally.Zero("brl"),
		Count:         5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Installments) != 5 {
		t.Fatalf("expected 5 installments after structural change, got %d", len(updated.Installments))
	}
	if got := updated.Installments[0].ExpectedAmount.Amount; got != 30000 {
		t.Errorf("expected clean regeneration (30000), got %d", got)
	}
}

func TestEditInstallmentAmountRebalances(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 3, testIssue.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	updated, warning, err := eng.EditInstallmentAmount(ctx, ent.ID, 0, tally.BRL(60000))
	if err != nil {
		t.Fatal(err)
	}
	if warning == nil || warning.Code != entry.WarnLastAdjusted {
		t.Fatalf("expected WarnLastAdjusted, got %v", warning)
	}

	amounts := []int64{60000, 50000, 40000}
	for i, in := range updated.Installments {
		if in.ExpectedAmount.Amount != amounts[i] {
			t.Errorf("installment %d: expected %d, got %d", i, amounts[i], in.ExpectedAmount.Amount)
		}
	}
	if !updated.ManuallyEdited {
		t.Error("expected ManuallyEdited to be set")
	}

	// The rebalanced schedule must be what the store now holds.
	got, err := eng.GetEntry(ctx, ent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Installments[2].ExpectedAmount.Amount != 40000 {
		t.Errorf("persisted last installment: expected 40000, got %d", got.Installments[2].ExpectedAmount.Amount)
	}
}

func TestRegisterPayment(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 3, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	// Partial payment
	p, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(20000), testNow, "pix-001")
	if err != nil {
		t.Fatal(err)
	}
	if p.InstallmentNumber != 1 {
		t.Errorf("expected payment against installment 1, got %d", p.InstallmentNumber)
	}

	got, err := eng.GetEntry(ctx, ent.ID)
	if err != nil {
		t.Fatal(err)
	}
	in := got.FindInstallment(1)
	if in.Status != entry.StatusPartiallyPaid {
		t.Errorf("expected partially_paid, got %s", in.Status)
	}
	if in.PaidAmount.Amount != 20000 {
		t.Errorf("expected paid 20000, got %d", in.PaidAmount.Amount)
	}

	// Second payment settles the installment
	if _, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(30000), testNow, "pix-002"); err != nil {
		t.Fatal(err)
	}
	got, _ = eng.GetEntry(ctx, ent.ID)
	if got.FindInstallment(1).Status != entry.StatusPaid {
		t.Errorf("expected paid, got %s", got.FindInstallment(1).Status)
	}

	// Both movements survive as payment rows
	payments, err := eng.ListPayments(ctx, ent.ID, payment.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(payments) != 2 {
		t.Errorf("expected 2 payment rows, got %d", len(payments))
	}
}

func TestRegisterPaymentErrors(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 2, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(-100), testNow, ""); !errors.Is(err, tally.ErrInvalidPayment) {
		t.Errorf("negative amount: expected ErrInvalidPayment, got %v", err)
	}
	if _, err := eng.RegisterPayment(ctx, ent.ID, 9, tally.BRL(100), testNow, ""); !errors.Is(err, tally.ErrInstallmentNotFound) {
		t.Errorf("unknown number: expected ErrInstallmentNotFound, got %v", err)
	}
	if _, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.USD(100), testNow, ""); !errors.Is(err, tally.ErrCurrencyMismatch) {
		t.Errorf("wrong currency: expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := eng.CancelInstallment(ctx, ent.ID, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(100), testNow, ""); !errors.Is(err, tally.ErrInstallmentCanceled) {
		t.Errorf("canceled row: expected ErrInstallmentCanceled, got %v", err)
	}
}

func TestCancelInstallment(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 2, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	updated, err := eng.CancelInstallment(ctx, ent.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	in := updated.FindInstallment(2)
	if !in.Canceled || in.Status != entry.StatusCanceled {
		t.Errorf("expected canceled row, got canceled=%v status=%s", in.Canceled, in.Status)
	}

	// Canceling again is a no-op
	if _, err := eng.CancelInstallment(ctx, ent.ID, 2); err != nil {
		t.Fatal(err)
	}
}

func TestRefreshStatuses(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	// First installment due before testNow, second after.
	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 2, testIssue.AddDate(0, 0, 5)); err != nil {
		t.Fatal(err)
	}

	changed, err := eng.RefreshStatuses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 status change, got %d", changed)
	}

	got, _ := eng.GetEntry(ctx, ent.ID)
	if got.FindInstallment(1).Status != entry.StatusOverdue {
		t.Errorf("expected installment 1 overdue, got %s", got.FindInstallment(1).Status)
	}
	if got.FindInstallment(2).Status != entry.StatusPending {
		t.Errorf("expected installment 2 pending, got %s", got.FindInstallment(2).Status)
	}

	// A second pass finds nothing to move
	changed, err = eng.RefreshStatuses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if changed != 0 {
		t.Errorf("expected no further changes, got %d", changed)
	}
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 3, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(50000), testNow, ""); err != nil {
		t.Fatal(err)
	}

	summary, err := eng.Summarize(ctx, report.Filter{Kind: entry.KindReceivable})
	if err != nil {
		t.Fatal(err)
	}

	if summary.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", summary.Entries)
	}
	if summary.Rows != 3 {
		t.Errorf("expected 3 rows, got %d", summary.Rows)
	}
	// Document value counted once despite three rows
	if summary.DocumentTotal.Amount != 150000 {
		t.Errorf("expected document total 150000, got %d", summary.DocumentTotal.Amount)
	}
	if summary.PaidTotal.Amount != 50000 {
		t.Errorf("expected paid total 50000, got %d", summary.PaidTotal.Amount)
	}
	if summary.BalanceTotal.Amount != 100000 {
		t.Errorf("expected balance total 100000, got %d", summary.BalanceTotal.Amount)
	}
}

func TestSummarizeFilterByKind(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	recv := newTestEntry()
	if _, err := eng.CreateEntry(ctx, recv, 2, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	pay := newTestEntry()
	pay.Kind = entry.KindPayable
	pay.DocumentValue = tally.BRL(40000)
	if _, err := eng.CreateEntry(ctx, pay, 2, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}

	summary, err := eng.Summarize(ctx, report.Filter{Kind: entry.KindPayable})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Entries != 1 || summary.DocumentTotal.Amount != 40000 {
		t.Errorf("expected payable-only summary, got entries=%d doc=%d", summary.Entries, summary.DocumentTotal.Amount)
	}
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine()

	ent := newTestEntry()
	if _, err := eng.CreateEntry(ctx, ent, 2, testNow.AddDate(0, 1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := eng.DeleteEntry(ctx, ent.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.GetEntry(ctx, ent.ID); !tally.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
