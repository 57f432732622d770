package sync

import (
	"testing"

	"github.com/candleworks/waxpro/internal/models"
)

func TestShallowOverlayRemoteWinsPerField(t *testing.T) {
	base := models.EmptyState()
	base.FinishedProducts = []models.FinishedProduct{
		{ID: "local-1", Name: "Local Candle", Quantity: 3},
	}
	base.Settings = &models.Settings{Language: models.LanguageIT, Currency: models.CurrencyEUR}

	overlay := models.EmptyState()
	overlay.FinishedProducts = []models.FinishedProduct{
		{ID: "remote-1", Name: "Remote Candle", Quantity: 7},
		{ID: "remote-2", Name: "Second Remote", Quantity: 1},
	}
	overlay.Settings = &models.Settings{Language: models.LanguageEN, Currency: models.CurrencyUSD}

	merged := ShallowOverlay(base, overlay)

	if len(merged.FinishedProducts) != 2 {
		t.Fatalf("expected the remote product list to win wholesale, got %d products", len(merged.FinishedProducts))
	}
	if merged.FinishedProducts[0].ID != "remote-1" {
		t.Errorf("expected remote-1 first, got %s", merged.FinishedProducts[0].ID)
	}
	if merged.Settings == nil || merged.Settings.Language != models.LanguageEN {
		t.Errorf("expected remote settings to overwrite local settings")
	}
}

func TestShallowOverlayLocalOnlyFieldsSurvive(t *testing.T) {
	ts := int64(1700000000000)
	base := models.EmptyState()
	base.LastSynced = &ts
	base.Settings = &models.Settings{Language: models.LanguageFR, Currency: models.CurrencyEUR}

	// A remote snapshot stripped of local metadata and without settings
	overlay := models.EmptyState()
	overlay.RawMaterials = []models.RawMaterial{
		{ID: "m1", Name: "Soy Wax", Type: models.MaterialWax, Quantity: 100},
	}

	merged := ShallowOverlay(base, overlay)

	if merged.LastSynced == nil || *merged.LastSynced != ts {
		t.Errorf("lastSynced is local-only and must survive the overlay")
	}
	if merged.Settings == nil || merged.Settings.Language != models.LanguageFR {
		t.Errorf("settings absent from the remote document must survive")
	}
	if len(merged.RawMaterials) != 1 || merged.RawMaterials[0].Name != "Soy Wax" {
		t.Errorf("remote raw materials must be applied")
	}
}

func TestShallowOverlayNormalizesResult(t *testing.T) {
	base := models.InventoryState{}
	overlay := models.InventoryState{
		FinishedProducts: []models.FinishedProduct{{ID: "p1", Quantity: -4}},
	}

	merged := ShallowOverlay(base, overlay)

	if merged.FinishedProducts[0].Quantity != 0 {
		t.Errorf("negative quantities must be clamped, got %d", merged.FinishedProducts[0].Quantity)
	}
	if merged.FinishedProducts[0].History == nil {
		t.Errorf("history must be defaulted to an empty slice")
	}
	if merged.SchemaVersion != models.CurrentSchemaVersion {
		t.Errorf("schema version not stamped, got %d", merged.SchemaVersion)
	}
}
