package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onEntryCreated       []OnEntryCreated
	onEntryUpdated       []OnEntryUpdated
	onEntryDeleted       []OnEntryDeleted
	onScheduleGenerated  []OnScheduleGenerated
	onInstallmentEdited  []OnInstallmentEdited
	onRebalanceWarning   []OnRebalanceWarning
	onPaymentRegistered  []OnPaymentRegistered
	onStatusChanged      []OnStatusChanged
	onInstallmentSettled []OnInstallmentSettled
	onEntrySettled       []OnEntrySettled
	onSummaryComputed    []OnSummaryComputed
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnEntryCreated); ok {
		r.onEntryCreated = append(r.onEntryCreated, v)
	}
	if v, ok := p.(OnEntryUpdated); ok {
		r.onEntryUpdated = append(r.onEntryUpdated, v)
	}
	if v, ok := p.(OnEntryDeleted); ok {
		r.onEntryDeleted = append(r.onEntryDeleted, v)
	}
	if v, ok := p.(OnScheduleGenerated); ok {
		r.onScheduleGenerated = append(r.onScheduleGenerated, v)
	}
	if v, ok := p.(OnInstallmentEdited); ok {
		r.onInstallmentEdited = append(r.onInstallmentEdited, v)
	}
	if v, ok := p.(OnRebalanceWarning); ok {
		r.onRebalanceWarning = append(r.onRebalanceWarning, v)
	}
	if v, ok := p.(OnPaymentRegistered); ok {
		r.onPaymentRegistered = append(r.onPaymentRegistered, v)
	}
	if v, ok := p.(OnStatusChanged); ok {
		r.onStatusChanged = append(r.onStatusChanged, v)
	}
	if v, ok := p.(OnInstallmentSettled); ok {
		r.onInstallmentSettled = append(r.onInstallmentSettled, v)
	}
	if v, ok := p.(OnEntrySettled); ok {
		r.onEntrySettled = append(r.onEntrySettled, v)
	}
	if v, ok := p.(OnSummaryComputed); ok {
		r.onSummaryComputed = append(r.onSummaryComputed, v)
	}

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, engine)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryCreated emits an entry created event.
func (r *Registry) EmitEntryCreated(ctx context.Context, entry interface{}) {
	r.mu.RLock()
	plugins := r.onEntryCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryCreated(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnEntryCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryUpdated emits an entry updated event.
func (r *Registry) EmitEntryUpdated(ctx context.Context, entry interface{}) {
	r.mu.RLock()
	plugins := r.onEntryUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryUpdated(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnEntryUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntryDeleted emits an entry deleted event.
func (r *Registry) EmitEntryDeleted(ctx context.Context, entryID string) {
	r.mu.RLock()
	plugins := r.onEntryDeleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntryDeleted(ctx, entryID)
		}); err != nil {
			r.logger.Warn("plugin OnEntryDeleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitScheduleGenerated emits a schedule generated event.
func (r *Registry) EmitScheduleGenerated(ctx context.Context, entry interface{}, count int) {
	r.mu.RLock()
	plugins := r.onScheduleGenerated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnScheduleGenerated(ctx, entry, count)
		}); err != nil {
			r.logger.Warn("plugin OnScheduleGenerated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInstallmentEdited emits an installment edited event.
func (r *Registry) EmitInstallmentEdited(ctx context.Context, entry interface{}, index int) {
	r.mu.RLock()
	plugins := r.onInstallmentEdited
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInstallmentEdited(ctx, entry, index)
		}); err != nil {
			r.logger.Warn("plugin OnInstallmentEdited failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRebalanceWarning emits a rebalance warning event.
func (r *Registry) EmitRebalanceWarning(ctx context.Context, entry interface{}, warning interface{}) {
	r.mu.RLock()
	plugins := r.onRebalanceWarning
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRebalanceWarning(ctx, entry, warning)
		}); err != nil {
			r.logger.Warn("plugin OnRebalanceWarning failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPaymentRegistered emits a payment registered event.
func (r *Registry) EmitPaymentRegistered(ctx context.Context, payment interface{}) {
	r.mu.RLock()
	plugins := r.onPaymentRegistered
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPaymentRegistered(ctx, payment)
		}); err != nil {
			r.logger.Warn("plugin OnPaymentRegistered failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStatusChanged emits a status changed event.
func (r *Registry) EmitStatusChanged(ctx context.Context, entryID string, number int, status string) {
	r.mu.RLock()
	plugins := r.onStatusChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStatusChanged(ctx, entryID, number, status)
		}); err != nil {
			r.logger.Warn("plugin OnStatusChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInstallmentSettled emits an installment settled event.
func (r *Registry) EmitInstallmentSettled(ctx context.Context, entryID string, number int) {
	r.mu.RLock()
	plugins := r.onInstallmentSettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInstallmentSettled(ctx, entryID, number)
		}); err != nil {
			r.logger.Warn("plugin OnInstallmentSettled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitEntrySettled emits an entry settled event.
func (r *Registry) EmitEntrySettled(ctx context.Context, entry interface{}) {
	r.mu.RLock()
	plugins := r.onEntrySettled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnEntrySettled(ctx, entry)
		}); err != nil {
			r.logger.Warn("plugin OnEntrySettled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSummaryComputed emits a summary computed event.
func (r *Registry) EmitSummaryComputed(ctx context.Context, summary interface{}) {
	r.mu.RLock()
	plugins := r.onSummaryComputed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSummaryComputed(ctx, summary)
		}); err != nil {
			r.logger.Warn("plugin OnSummaryComputed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the rebalancing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
