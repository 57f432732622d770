package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/candleworks/waxpro/internal/models"
)

func reportState() models.InventoryState {
	history := func(types ...models.TransactionType) []models.Transaction {
		entries := make([]models.Transaction, len(types))
		for i, t := range types {
			entries[i] = models.Transaction{ID: models.NewID(), Type: t, Timestamp: 1700000000000}
		}
		return entries
	}

	state := models.EmptyState()
	state.Settings = &models.Settings{Language: models.LanguageEN, Currency: models.CurrencyUSD}
	state.FinishedProducts = []models.FinishedProduct{
		{
			ID: "p1", Name: "Lavender Dream", Quantity: 10,
			CostPerUnit: 4, SellingPrice: 14,
			History: history(
				models.TransactionSale,
				models.TransactionSale,
				models.TransactionSale,
				models.TransactionSale,
				models.TransactionReturn,
			),
		},
		{
			ID: "p2", Name: "Idle Stock", Quantity: 3,
			CostPerUnit: 5, SellingPrice: 9,
		},
	}
	return state
}

func TestBuild(t *testing.T) {
	r := Build(reportState(), time.Now())

	if len(r.Lines) != 2 {
		t.Fatalf("expected 2 report lines, got %d", len(r.Lines))
	}

	line := r.Lines[0]
	if line.Sales != 4 || line.Returns != 1 {
		t.Errorf("sales/returns = %d/%d, want 4/1", line.Sales, line.Returns)
	}
	if line.ReturnRate != 25 {
		t.Errorf("return rate = %v, want 25 (returns over sales)", line.ReturnRate)
	}
	// (4 sales - 1 return) * (14 - 4) margin
	if line.Profit != 30 {
		t.Errorf("profit = %v, want 30", line.Profit)
	}

	idle := r.Lines[1]
	if idle.ReturnRate != 0 || idle.Profit != 0 {
		t.Errorf("a product without sales has zero rate and profit, got %+v", idle)
	}

	if r.Totals.Stock != 13 || r.Totals.Sales != 4 || math.Abs(r.Totals.Profit-30) > 1e-9 {
		t.Errorf("totals = %+v", r.Totals)
	}
	if r.Currency != models.CurrencyUSD {
		t.Errorf("currency must follow settings, got %s", r.Currency)
	}
}

func TestBuildDefaultsCurrency(t *testing.T) {
	state := models.EmptyState()
	r := Build(state, time.Now())
	if r.Currency != models.CurrencyEUR {
		t.Errorf("currency defaults to EUR before onboarding, got %s", r.Currency)
	}
}

func TestShareText(t *testing.T) {
	text := ShareText(Build(reportState(), time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)))

	for _, want := range []string{
		"WAREHOUSE REPORT",
		"29/08/2026",
		"LAVENDER DREAM",
		"Returns: 25.0%",
		"$ 30.00",
		"Total stock: 13 pcs",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q:\n%s", want, text)
		}
	}
}

func TestProductShareText(t *testing.T) {
	product := models.FinishedProduct{Name: "Lavender Dream", Quantity: 10}
	text := ProductShareText(product, 4, 1, 2, 42.0, "Last 7 days", models.CurrencyEUR)

	for _, want := range []string{"Lavender Dream", "Last 7 days", "SALES: 4 pcs", "€ 42.00", "CURRENT STOCK: 10 pcs"} {
		if !strings.Contains(text, want) {
			t.Errorf("product share text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	pdf, err := RenderPDF(Build(reportState(), time.Now()))
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF document")
	}
}
