package state

import (
	"github.com/candleworks/waxpro/internal/models"
)

// The helpers below are pure: they compute the next snapshot from the current
// one plus an input payload. Every mutation produces a new full state object;
// nothing is edited in place.

func withProductAdded(state models.InventoryState, product models.FinishedProduct) models.InventoryState {
	next := state
	next.FinishedProducts = append(append([]models.FinishedProduct{}, state.FinishedProducts...), product)
	return next
}

func withProductUpdated(state models.InventoryState, product models.FinishedProduct) (models.InventoryState, bool) {
	next := state
	found := false
	products := make([]models.FinishedProduct, len(state.FinishedProducts))
	for i, p := range state.FinishedProducts {
		if p.ID == product.ID {
			// History is append-only; an edit never rewrites it
			product.History = p.History
			product.CreatedAt = p.CreatedAt
			products[i] = product
			found = true
		} else {
			products[i] = p
		}
	}
	next.FinishedProducts = products
	return next, found
}

func withProductDeleted(state models.InventoryState, id string) (models.InventoryState, bool) {
	next := state
	found := false
	products := make([]models.FinishedProduct, 0, len(state.FinishedProducts))
	for _, p := range state.FinishedProducts {
		if p.ID == id {
			found = true
			continue
		}
		products = append(products, p)
	}
	next.FinishedProducts = products
	return next, found
}

// withTransaction appends a history entry and applies its quantity effect:
// SALE decrements (floored at zero), RESTOCK and RETURN increment.
func withTransaction(state models.InventoryState, productID string, txn models.Transaction) (models.InventoryState, models.FinishedProduct, bool) {
	next := state
	var updated models.FinishedProduct
	found := false

	products := make([]models.FinishedProduct, len(state.FinishedProducts))
	for i, p := range state.FinishedProducts {
		if p.ID != productID {
			products[i] = p
			continue
		}
		found = true

		switch txn.Type {
		case models.TransactionSale:
			if p.Quantity > 0 {
				p.Quantity--
			}
		case models.TransactionRestock, models.TransactionReturn:
			p.Quantity++
		}
		p.History = append(append([]models.Transaction{}, p.History...), txn)
		products[i] = p
		updated = p
	}
	next.FinishedProducts = products
	return next, updated, found
}

func withMaterialAdded(state models.InventoryState, material models.RawMaterial) models.InventoryState {
	next := state
	next.RawMaterials = append(append([]models.RawMaterial{}, state.RawMaterials...), material)
	return next
}

func withMaterialDeleted(state models.InventoryState, id string) (models.InventoryState, bool) {
	next := state
	found := false
	materials := make([]models.RawMaterial, 0, len(state.RawMaterials))
	for _, m := range state.RawMaterials {
		if m.ID == id {
			found = true
			continue
		}
		materials = append(materials, m)
	}
	next.RawMaterials = materials
	return next, found
}

func withSettings(state models.InventoryState, settings models.Settings) models.InventoryState {
	next := state
	next.Settings = &settings
	return next
}

// withReset clears all inventory data but preserves settings
func withReset(state models.InventoryState) models.InventoryState {
	next := models.EmptyState()
	next.Settings = state.Settings
	return next
}
