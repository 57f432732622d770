package state

import (
	"context"
	"strings"
	"testing"

	"github.com/candleworks/waxpro/internal/models"
)

type memStore struct {
	state models.InventoryState
	saves int
}

func (m *memStore) Load() models.InventoryState { return m.state.Normalize() }

func (m *memStore) Save(state models.InventoryState) bool {
	m.state = state
	m.saves++
	return true
}

func (m *memStore) Clear() bool {
	m.state = models.InventoryState{}
	return true
}

type recordingNotifier struct {
	infos    []string
	warnings []string
}

func (n *recordingNotifier) Info(message string)    { n.infos = append(n.infos, message) }
func (n *recordingNotifier) Warn(message string)    { n.warnings = append(n.warnings, message) }
func (n *recordingNotifier) Success(message string) {}

func newTestManager() (*Manager, *memStore, *recordingNotifier) {
	store := &memStore{state: models.EmptyState()}
	notifier := &recordingNotifier{}
	return NewManager(store, notifier), store, notifier
}

func TestAddProductAssignsIdentity(t *testing.T) {
	m, store, _ := newTestManager()

	created := m.AddProduct(context.Background(), models.FinishedProduct{Name: "Rose Candle", Quantity: 5})

	if created.ID == "" {
		t.Error("an ID must be assigned")
	}
	if created.CreatedAt == 0 {
		t.Error("a creation timestamp must be assigned")
	}
	if created.History == nil {
		t.Error("history must start as an empty slice")
	}
	if store.saves != 1 {
		t.Errorf("the mutation must be persisted, got %d saves", store.saves)
	}
}

func TestUpdateProductPreservesHistory(t *testing.T) {
	m, _, _ := newTestManager()

	created := m.AddProduct(context.Background(), models.FinishedProduct{Name: "Rose Candle", Quantity: 5, ReorderLevel: 1})
	if _, _, err := m.RecordTransaction(context.Background(), created.ID, models.TransactionSale); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	edit := created
	edit.Name = "Rose Candle XL"
	edit.SellingPrice = 19.90
	if err := m.UpdateProduct(context.Background(), edit); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	got := m.Snapshot().FinishedProducts[0]
	if got.Name != "Rose Candle XL" {
		t.Errorf("name not updated, got %s", got.Name)
	}
	if len(got.History) != 1 {
		t.Errorf("editing a product must not discard its history, got %d entries", len(got.History))
	}
	if got.CreatedAt != created.CreatedAt {
		t.Errorf("creation time must be preserved on edit")
	}
}

func TestSaleFloorsQuantityAtZero(t *testing.T) {
	m, _, _ := newTestManager()
	created := m.AddProduct(context.Background(), models.FinishedProduct{Name: "Tiny Batch", Quantity: 1, ReorderLevel: 0})

	for i := 0; i < 3; i++ {
		if _, _, err := m.RecordTransaction(context.Background(), created.ID, models.TransactionSale); err != nil {
			t.Fatalf("RecordTransaction: %v", err)
		}
	}

	got := m.Snapshot().FinishedProducts[0]
	if got.Quantity != 0 {
		t.Errorf("quantity must never go negative, got %d", got.Quantity)
	}
	if len(got.History) != 3 {
		t.Errorf("every movement is recorded even at zero stock, got %d", len(got.History))
	}
}

func TestTransactionHistoryIsAppendOnly(t *testing.T) {
	m, _, _ := newTestManager()
	created := m.AddProduct(context.Background(), models.FinishedProduct{Name: "Candle", Quantity: 10, ReorderLevel: 0})

	sequence := []models.TransactionType{
		models.TransactionSale,
		models.TransactionRestock,
		models.TransactionReturn,
	}
	for _, txnType := range sequence {
		if _, _, err := m.RecordTransaction(context.Background(), created.ID, txnType); err != nil {
			t.Fatalf("RecordTransaction(%s): %v", txnType, err)
		}
	}

	got := m.Snapshot().FinishedProducts[0]
	if len(got.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(got.History))
	}
	for i, txnType := range sequence {
		if got.History[i].Type != txnType {
			t.Errorf("history[%d] = %s, want %s", i, got.History[i].Type, txnType)
		}
	}
	// SALE -1, RESTOCK +1, RETURN +1
	if got.Quantity != 11 {
		t.Errorf("expected quantity 11, got %d", got.Quantity)
	}
}

func TestLowStockNotificationAfterSale(t *testing.T) {
	m, _, notifier := newTestManager()
	created := m.AddProduct(context.Background(), models.FinishedProduct{Name: "Vanilla", Quantity: 5, ReorderLevel: 5})

	_, lowStock, err := m.RecordTransaction(context.Background(), created.ID, models.TransactionSale)
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	if !lowStock {
		t.Error("quantity 4 with reorder level 5 must flag low stock")
	}
	if len(notifier.warnings) != 1 || !strings.Contains(notifier.warnings[0], "Vanilla") {
		t.Errorf("a low-stock warning naming the product is expected, got %v", notifier.warnings)
	}
}

func TestRestockNeverFlagsLowStock(t *testing.T) {
	m, _, notifier := newTestManager()
	created := m.AddProduct(context.Background(), models.FinishedProduct{Name: "Vanilla", Quantity: 1, ReorderLevel: 5})

	_, lowStock, err := m.RecordTransaction(context.Background(), created.ID, models.TransactionRestock)
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	if lowStock {
		t.Error("the reorder threshold is only evaluated after sales")
	}
	if len(notifier.warnings) != 0 {
		t.Errorf("no warning expected on restock, got %v", notifier.warnings)
	}
}

func TestResetPreservesSettings(t *testing.T) {
	m, _, _ := newTestManager()
	m.AddProduct(context.Background(), models.FinishedProduct{Name: "Candle", Quantity: 3})
	m.UpdateSettings(context.Background(), models.Settings{Language: models.LanguageDE, Currency: models.CurrencyEUR})

	m.Reset(context.Background(), false)

	got := m.Snapshot()
	if len(got.FinishedProducts) != 0 || len(got.RawMaterials) != 0 {
		t.Error("reset must clear all inventory data")
	}
	if got.Settings == nil || got.Settings.Language != models.LanguageDE {
		t.Error("reset must keep the user settings")
	}
}

func TestSetLastSyncedSkipsCloudPropagation(t *testing.T) {
	m, store, _ := newTestManager()
	saves := store.saves

	m.SetLastSynced(1700000000000)

	got := m.Snapshot()
	if got.LastSynced == nil || *got.LastSynced != 1700000000000 {
		t.Error("lastSynced must be stamped")
	}
	if store.saves != saves+1 {
		t.Errorf("the stamp must be written locally, got %d saves", store.saves)
	}
}

func TestDeleteProductMissing(t *testing.T) {
	m, _, _ := newTestManager()
	if err := m.DeleteProduct(context.Background(), "missing"); err == nil {
		t.Error("deleting an unknown product must fail")
	}
}
