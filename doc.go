// Package tally provides a composable installment and receivables engine for Go applications.
//
// Tally is designed as a library, not a service. Import it directly into your Go
// application for maximum performance and flexibility. It provides:
//
//   - Integer-only money arithmetic with deterministic rounding
//   - Remainder-absorbing installment splitting (no lost minor units)
//   - Schedule rebalancing when individual installments are edited
//   - A settlement state machine (pending, partially paid, paid, overdue, canceled)
//   - Ledger entry validation and header-driven schedule regeneration
//   - Reconciliation summaries with per-entry header deduplication
//   - Pluggable hook system for billing and audit integrations
//
// # Quick Start
//
// Create an engine with your preferred store:
//
//	import (
//	    "github.com/xraph/tally"
//	    "github.com/xraph/tally/store/postgres"
//	)
//
//	// Initialize store
//	store, err := postgres.New(databaseURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create engine
//	eng := tally.New(store)
//
//	// Start the engine (runs migrations and begins background workers)
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Stop()
//
// # Core Concepts
//
// Entries represent one financial document (an invoice, a purchase, a
// contract) with a header (document value, discount, interest, down
// payment) and a generated installment schedule:
//
//	ent := &entry.Entry{
//	    Kind:          entry.KindReceivable,
//	    Currency:      "brl",
//	    DocumentValue: tally.BRL(150000),
//	    Discount:      tally.BRL(5000),
//	    IssueDate:     time.Now(),
//	}
//	warnings, err := eng.CreateEntry(ctx, ent, 12, firstDue)
//
// Editing one installment rebalances the rest so the schedule always
// sums back to the entry balance:
//
//	ent, warning, err := eng.EditInstallmentAmount(ctx, ent.ID, 0, tally.BRL(20000))
//
// Payments accumulate against installments and drive the settlement
// state machine:
//
//	p, err := eng.RegisterPayment(ctx, ent.ID, 1, tally.BRL(12500), time.Now(), "pix-8842")
//
// Reconciliation summaries aggregate installment rows while counting
// header figures once per entry:
//
//	summary, err := eng.Summarize(ctx, report.Filter{Kind: entry.KindReceivable})
//
// # Money
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest currency
// unit (centavos for BRL, cents for USD, etc). Division distributes the
// remainder across trailing installments; proportional scaling rounds half
// away from zero.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	ent_01h2xcejqtf2nbrexx3vqjhp41   // Entry ID
//	inst_01h2xcejqtf2nbrexx3vqjhp41  // Installment ID
//	pay_01h455vb4pex5vsknk084sn02q   // Payment ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package tally
