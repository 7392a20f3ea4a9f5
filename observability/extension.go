// Package observability provides a metrics extension for Tally that records
// lifecycle event counts via a pluggable MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/tally/plugin"
	"github.com/xraph/tally/report"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnEntryCreated      = (*MetricsExtension)(nil)
	_ plugin.OnEntryUpdated      = (*MetricsExtension)(nil)
	_ plugin.OnEntryDeleted      = (*MetricsExtension)(nil)
	_ plugin.OnScheduleGenerated = (*MetricsExtension)(nil)
	_ plugin.OnInstallmentEdited = (*MetricsExtension)(nil)
	_ plugin.OnRebalanceWarning  = (*MetricsExtension)(nil)
	_ plugin.OnPaymentRegistered = (*MetricsExtension)(nil)
	_ plugin.OnStatusChanged     = (*MetricsExtension)(nil)
	_ plugin.OnEntrySettled      = (*MetricsExtension)(nil)
	_ plugin.OnSummaryComputed   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a Tally plugin to automatically track schedule and
// settlement activity.
type MetricsExtension struct {
	factory MetricFactory

	// Entry metrics
	EntryCreated Counter
	EntryUpdated Counter
	EntryDeleted Counter
	EntrySettled Counter

	// Schedule metrics
	ScheduleGenerated Counter
	ScheduleSize      Histogram
	InstallmentEdited Counter
	RebalanceWarnings Counter

	// Settlement metrics
	PaymentRegistered Counter
	StatusChanged     Counter
	OverdueMarked     Counter

	// Reporting metrics
	SummaryComputed Counter
	SummaryRowCount Histogram

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Entry metrics
		EntryCreated: factory.Counter("tally.entry.created"),
		EntryUpdated: factory.Counter("tally.entry.updated"),
		EntryDeleted: factory.Counter("tally.entry.deleted"),
		EntrySettled: factory.Counter("tally.entry.settled"),

		// Schedule metrics
		ScheduleGenerated: factory.Counter("tally.schedule.generated"),
		ScheduleSize:      factory.Histogram("tally.schedule.size"),
		InstallmentEdited: factory.Counter("tally.installment.edited"),
		RebalanceWarnings: factory.Counter("tally.rebalance.warnings"),

		// Settlement metrics
		PaymentRegistered: factory.Counter("tally.payment.registered"),
		StatusChanged:     factory.Counter("tally.status.changed"),
		OverdueMarked:     factory.Counter("tally.status.overdue"),

		// Reporting metrics
		SummaryComputed: factory.Counter("tally.summary.computed"),
		SummaryRowCount: factory.Histogram("tally.summary.rows"),

		// Error metrics
		StoreErrors:  factory.Counter("tally.store.errors"),
		PluginErrors: factory.Counter("tally.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Entry lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntryCreated implements plugin.OnEntryCreated.
func (m *MetricsExtension) OnEntryCreated(_ context.Context, _ interface{}) error {
	m.EntryCreated.Inc()
	return nil
}

// OnEntryUpdated implements plugin.OnEntryUpdated.
func (m *MetricsExtension) OnEntryUpdated(_ context.Context, _ interface{}) error {
	m.EntryUpdated.Inc()
	return nil
}

// OnEntryDeleted implements plugin.OnEntryDeleted.
func (m *MetricsExtension) OnEntryDeleted(_ context.Context, _ string) error {
	m.EntryDeleted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Schedule hooks
// ──────────────────────────────────────────────────

// OnScheduleGenerated implements plugin.OnScheduleGenerated.
func (m *MetricsExtension) OnScheduleGenerated(_ context.Context, _ interface{}, count int) error {
	m.ScheduleGenerated.Inc()
	m.ScheduleSize.Observe(float64(count))
	return nil
}

// OnInstallmentEdited implements plugin.OnInstallmentEdited.
func (m *MetricsExtension) OnInstallmentEdited(_ context.Context, _ interface{}, _ int) error {
	m.InstallmentEdited.Inc()
	return nil
}

// OnRebalanceWarning implements plugin.OnRebalanceWarning.
func (m *MetricsExtension) OnRebalanceWarning(_ context.Context, _ interface{}, _ interface{}) error {
	m.RebalanceWarnings.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPaymentRegistered implements plugin.OnPaymentRegistered.
func (m *MetricsExtension) OnPaymentRegistered(_ context.Context, _ interface{}) error {
	m.PaymentRegistered.Inc()
	return nil
}

// OnStatusChanged implements plugin.OnStatusChanged.
func (m *MetricsExtension) OnStatusChanged(_ context.Context, _ string, _ int, status string) error {
	m.StatusChanged.Inc()
	if status == "overdue" {
		m.OverdueMarked.Inc()
	}
	return nil
}

// OnEntrySettled implements plugin.OnEntrySettled.
func (m *MetricsExtension) OnEntrySettled(_ context.Context, _ interface{}) error {
	m.EntrySettled.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Reporting hooks
// ──────────────────────────────────────────────────

// OnSummaryComputed implements plugin.OnSummaryComputed.
func (m *MetricsExtension) OnSummaryComputed(_ context.Context, summary interface{}) error {
	m.SummaryComputed.Inc()
	if s, ok := summary.(*report.Summary); ok && s != nil {
		m.SummaryRowCount.Observe(float64(s.Rows))
	}
	return nil
}
