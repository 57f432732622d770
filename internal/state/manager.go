// Package state holds the authoritative in-memory inventory snapshot. All
// mutations run through Update, which replaces the snapshot wholesale and
// pushes it to the local store and the sync orchestrator. Reads through
// Snapshot always see the value as of the call, which is what lets a
// debounced sync timer ship the freshest state instead of a stale capture.
package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/candleworks/waxpro/internal/models"
)

// CloudPersister propagates the current state locally and remotely
type CloudPersister interface {
	Persist(ctx context.Context, forceCloud bool) bool
}

// LocalSaver is the local store used when cloud propagation is skipped
type LocalSaver interface {
	Load() models.InventoryState
	Save(state models.InventoryState) bool
	Clear() bool
}

// Notifier surfaces transient user notifications
type Notifier interface {
	Info(message string)
	Warn(message string)
	Success(message string)
}

// ChangeListener is called after every state replacement
type ChangeListener func(state models.InventoryState)

// Manager is the application state holder
type Manager struct {
	mu        sync.RWMutex
	state     models.InventoryState
	store     LocalSaver
	persister CloudPersister
	notifier  Notifier
	listeners []ChangeListener
}

// NewManager creates a state manager initialized from the local store
func NewManager(store LocalSaver, notifier Notifier) *Manager {
	return &Manager{
		state:    store.Load(),
		store:    store,
		notifier: notifier,
	}
}

// AttachPersister wires the sync orchestrator in after construction (the
// orchestrator itself reads state through this manager)
func (m *Manager) AttachPersister(p CloudPersister) {
	m.mu.Lock()
	m.persister = p
	m.mu.Unlock()
}

// OnChange subscribes to state replacements
func (m *Manager) OnChange(fn ChangeListener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Snapshot returns the current state. Callers treat the contained slices as
// immutable; mutations always construct fresh ones.
func (m *Manager) Snapshot() models.InventoryState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Replace swaps the in-memory state without persisting; used by the merge
// path, which persists on its own
func (m *Manager) Replace(state models.InventoryState) {
	m.mu.Lock()
	m.state = state
	listeners := append([]ChangeListener(nil), m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(state)
	}
}

// SetLastSynced stamps the last successful remote write. The stamp is
// local-only metadata, so it is saved locally without cloud propagation.
func (m *Manager) SetLastSynced(ts int64) {
	m.mu.Lock()
	next := m.state
	next.LastSynced = &ts
	m.state = next
	listeners := append([]ChangeListener(nil), m.listeners...)
	m.mu.Unlock()

	m.store.Save(next)
	for _, fn := range listeners {
		fn(next)
	}
}

// Update replaces the state wholesale. Unless skipCloud is set it delegates
// to the sync orchestrator (local save + debounced remote write); with
// skipCloud it writes the local store directly, which is what logout/reset
// paths use when remote propagation is undesired.
func (m *Manager) Update(ctx context.Context, newState models.InventoryState, skipCloud bool) {
	m.mu.Lock()
	m.state = newState
	persister := m.persister
	listeners := append([]ChangeListener(nil), m.listeners...)
	m.mu.Unlock()

	if skipCloud || persister == nil {
		m.store.Save(newState)
	} else {
		persister.Persist(ctx, false)
	}

	for _, fn := range listeners {
		fn(newState)
	}
}

// AddProduct appends a new finished product. ID and creation time are
// assigned here when absent.
func (m *Manager) AddProduct(ctx context.Context, product models.FinishedProduct) models.FinishedProduct {
	if product.ID == "" {
		product.ID = models.NewID()
	}
	if product.CreatedAt == 0 {
		product.CreatedAt = models.NowMillis()
	}
	if product.Quantity < 0 {
		product.Quantity = 0
	}
	if product.History == nil {
		product.History = []models.Transaction{}
	}

	m.Update(ctx, withProductAdded(m.Snapshot(), product), false)
	return product
}

// UpdateProduct replaces an existing product's editable fields
func (m *Manager) UpdateProduct(ctx context.Context, product models.FinishedProduct) error {
	next, found := withProductUpdated(m.Snapshot(), product)
	if !found {
		return fmt.Errorf("product %s not found", product.ID)
	}
	m.Update(ctx, next, false)
	return nil
}

// DeleteProduct removes a product and its history
func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	next, found := withProductDeleted(m.Snapshot(), id)
	if !found {
		return fmt.Errorf("product %s not found", id)
	}
	m.Update(ctx, next, false)
	return nil
}

// RecordTransaction appends a SALE/RESTOCK/RETURN entry and applies its
// quantity effect. After a sale it evaluates the reorder threshold and raises
// the matching notification. Returns the updated product and whether it is
// now at or below its reorder level.
func (m *Manager) RecordTransaction(ctx context.Context, productID string, txnType models.TransactionType) (models.FinishedProduct, bool, error) {
	txn := models.Transaction{
		ID:        models.NewID(),
		Type:      txnType,
		Timestamp: models.NowMillis(),
	}

	next, updated, found := withTransaction(m.Snapshot(), productID, txn)
	if !found {
		return models.FinishedProduct{}, false, fmt.Errorf("product %s not found", productID)
	}
	m.Update(ctx, next, false)

	lowStock := txnType == models.TransactionSale && updated.LowStock()
	if m.notifier != nil {
		if lowStock {
			m.notifier.Warn(fmt.Sprintf("Low stock: %s (%d left)", updated.Name, updated.Quantity))
		} else {
			m.notifier.Info(fmt.Sprintf("%s recorded for %s", txnType, updated.Name))
		}
	}
	return updated, lowStock, nil
}

// AddRawMaterial appends a raw material
func (m *Manager) AddRawMaterial(ctx context.Context, material models.RawMaterial) models.RawMaterial {
	if material.ID == "" {
		material.ID = models.NewID()
	}
	m.Update(ctx, withMaterialAdded(m.Snapshot(), material), false)
	return material
}

// DeleteRawMaterial removes a raw material
func (m *Manager) DeleteRawMaterial(ctx context.Context, id string) error {
	next, found := withMaterialDeleted(m.Snapshot(), id)
	if !found {
		return fmt.Errorf("material %s not found", id)
	}
	m.Update(ctx, next, false)
	return nil
}

// UpdateSettings stores the onboarding choices
func (m *Manager) UpdateSettings(ctx context.Context, settings models.Settings) {
	m.Update(ctx, withSettings(m.Snapshot(), settings), false)
}

// Reset clears all inventory data, preserving settings
func (m *Manager) Reset(ctx context.Context, skipCloud bool) {
	m.Update(ctx, withReset(m.Snapshot()), skipCloud)
}

// ClearLocal wipes the local store and resets the in-memory state entirely;
// used by account deletion
func (m *Manager) ClearLocal() bool {
	ok := m.store.Clear()
	m.Replace(models.EmptyState())
	return ok
}
