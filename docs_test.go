package tally_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/tally"
	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/report"
	"github.com/xraph/tally/store/memory"
	"github.com/xraph/tally/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from README
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Initialize engine
		eng := tally.New(store,
			tally.WithLogger(slog.Default()),
			tally.WithTolerance(1),
			tally.WithStatusRefreshInterval(time.Hour),
		)

		// Start the engine
		ctx := context.Background()
		if err := eng.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer eng.Stop()

		// Create an entry with a 12-installment schedule
		issue := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		ent := &entry.Entry{
			Kind:          entry.KindReceivable,
			Currency:      "brl",
			Description:   "Service contract 2026",
			DocumentValue: tally.BRL(150000), // R$1500.00
			Discount:      tally.BRL(5000),   // R$50.00
			IssueDate:     issue,
		}

		warnings, err := eng.CreateEntry(ctx, ent, 12, issue.AddDate(0, 1, 0))
		if err != nil {
			t.Fatal(err)
		}
		for _, w := range warnings {
			log.Printf("warning: %s\n", w)
		}

		// Edit one installment; the rest rebalance automatically
		ent, warning, err := eng.EditInstallmentAmount(ctx, ent.ID, 0, tally.BRL(20000))
		if err != nil {
			t.Fatal(err)
		}
		if warning != nil {
			log.Printf("rebalance: %s\n", warning)
		}

		// Register a payment against installment 1
		if _, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(20000), issue.AddDate(0, 1, 2), "pix-8842"); err != nil {
			t.Fatal(err)
		}

		// Build a reconciliation summary
		summary, err := eng.Summarize(ctx, report.Filter{Kind: entry.KindReceivable})
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("paid total: %s\n", summary.PaidTotal)
	})

	// Test Money type examples
	t.Run("MoneyExamples", func(t *testing.T) {
		// Constructors
		_ = types.BRL(150000) // R$1500.00
		_ = types.USD(4900)   // $49.00
		_ = types.Zero("brl") // R$0.00

		// Arithmetic
		m1 := types.BRL(100)
		m2 := types.BRL(200)
		_ = m1.Add(m2)        // R$3.00
		_ = m1.Multiply(3)    // R$3.00
		_ = m1.Scale(15, 100) // 15% of R$1.00

		// Comparison
		if m1.LessThan(m2) {
			// m1 is less than m2
		}

		// Formatting
		_ = m1.String()      // "R$1.00"
		_ = m1.FormatMajor() // "1.00"

		// Parsing accepts both decimal conventions
		if _, err := types.ParseMoney("1.234,56", "brl"); err != nil {
			t.Fatal(err)
		}
	})
}
