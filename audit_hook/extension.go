// Package audithook bridges Tally lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/tally/entry"
	"github.com/xraph/tally/payment"
	"github.com/xraph/tally/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnEntryCreated      = (*Extension)(nil)
	_ plugin.OnEntryUpdated      = (*Extension)(nil)
	_ plugin.OnEntryDeleted      = (*Extension)(nil)
	_ plugin.OnScheduleGenerated = (*Extension)(nil)
	_ plugin.OnInstallmentEdited = (*Extension)(nil)
	_ plugin.OnRebalanceWarning  = (*Extension)(nil)
	_ plugin.OnPaymentRegistered = (*Extension)(nil)
	_ plugin.OnStatusChanged     = (*Extension)(nil)
	_ plugin.OnEntrySettled      = (*Extension)(nil)
	_ plugin.OnSummaryComputed   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly; callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Tally lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Entry lifecycle hooks
// ──────────────────────────────────────────────────

// OnEntryCreated implements plugin.OnEntryCreated.
func (e *Extension) OnEntryCreated(ctx context.Context, ent interface{}) error {
	id, kind := entryIdentity(ent)
	return e.record(ctx, ActionEntryCreated, SeverityInfo, OutcomeSuccess,
		ResourceEntry, id, CategorySchedule, nil,
		"kind", kind,
	)
}

// OnEntryUpdated implements plugin.OnEntryUpdated.
func (e *Extension) OnEntryUpdated(ctx context.Context, ent interface{}) error {
	id, kind := entryIdentity(ent)
	return e.record(ctx, ActionEntryUpdated, SeverityInfo, OutcomeSuccess,
		ResourceEntry, id, CategorySchedule, nil,
		"kind", kind,
	)
}

// OnEntryDeleted implements plugin.OnEntryDeleted.
func (e *Extension) OnEntryDeleted(ctx context.Context, entryID string) error {
	return e.record(ctx, ActionEntryDeleted, SeverityWarning, OutcomeSuccess,
		ResourceEntry, entryID, CategorySchedule, nil,
		"entry_id", entryID,
	)
}

// OnEntrySettled implements plugin.OnEntrySettled.
func (e *Extension) OnEntrySettled(ctx context.Context, ent interface{}) error {
	id, kind := entryIdentity(ent)
	return e.record(ctx, ActionEntrySettled, SeverityInfo, OutcomeSuccess,
		ResourceEntry, id, CategorySettlement, nil,
		"kind", kind,
	)
}

// ──────────────────────────────────────────────────
// Schedule hooks
// ──────────────────────────────────────────────────

// OnScheduleGenerated implements plugin.OnScheduleGenerated.
func (e *Extension) OnScheduleGenerated(ctx context.Context, ent interface{}, count int) error {
	id, _ := entryIdentity(ent)
	return e.record(ctx, ActionScheduleGenerated, SeverityInfo, OutcomeSuccess,
		ResourceEntry, id, CategorySchedule, nil,
		"installment_count", count,
	)
}

// OnInstallmentEdited implements plugin.OnInstallmentEdited.
func (e *Extension) OnInstallmentEdited(ctx context.Context, ent interface{}, index int) error {
	id, _ := entryIdentity(ent)
	return e.record(ctx, ActionInstallmentEdited, SeverityInfo, OutcomeSuccess,
		ResourceInstallment, id, CategorySchedule, nil,
		"index", index,
	)
}

// OnRebalanceWarning implements plugin.OnRebalanceWarning.
func (e *Extension) OnRebalanceWarning(ctx context.Context, ent interface{}, warning interface{}) error {
	id, _ := entryIdentity(ent)
	kv := []any{}
	if w, ok := warning.(*entry.Warning); ok && w != nil {
		kv = append(kv, "code", string(w.Code), "index", w.Index, "message", w.Message)
	}
	return e.record(ctx, ActionRebalanceWarning, SeverityWarning, OutcomePartial,
		ResourceInstallment, id, CategorySchedule, nil, kv...)
}

// ──────────────────────────────────────────────────
// Settlement hooks
// ──────────────────────────────────────────────────

// OnPaymentRegistered implements plugin.OnPaymentRegistered.
func (e *Extension) OnPaymentRegistered(ctx context.Context, pay interface{}) error {
	kv := []any{}
	var resourceID string
	if p, ok := pay.(*payment.Payment); ok && p != nil {
		resourceID = p.ID.String()
		kv = append(kv,
			"entry_id", p.EntryID.String(),
			"installment_number", p.InstallmentNumber,
			"amount", p.Amount.String(),
		)
	}
	return e.record(ctx, ActionPaymentRegistered, SeverityInfo, OutcomeSuccess,
		ResourcePayment, resourceID, CategorySettlement, nil, kv...)
}

// OnStatusChanged implements plugin.OnStatusChanged.
func (e *Extension) OnStatusChanged(ctx context.Context, entryID string, number int, status string) error {
	severity := SeverityInfo
	if status == string(entry.StatusOverdue) {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionStatusChanged, severity, OutcomeSuccess,
		ResourceInstallment, entryID, CategorySettlement, nil,
		"installment_number", number,
		"status", status,
	)
}

// ──────────────────────────────────────────────────
// Reporting hooks
// ──────────────────────────────────────────────────

// OnSummaryComputed implements plugin.OnSummaryComputed.
func (e *Extension) OnSummaryComputed(_ context.Context, _ interface{}) error {
	// Summaries are read-only aggregations; skip to reduce noise.
	return nil
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// entryIdentity extracts the ID and kind from an entry payload.
func entryIdentity(ent interface{}) (string, string) {
	if en, ok := ent.(*entry.Entry); ok && en != nil {
		return en.ID.String(), string(en.Kind)
	}
	return "", ""
}

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
