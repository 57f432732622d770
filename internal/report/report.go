// Package report builds the warehouse report: per-product stock, return rate
// and profit, plus a shareable text summary and a PDF export.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/candleworks/waxpro/internal/models"
)

// ProductLine is one product row of the warehouse report
type ProductLine struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Stock      int     `json:"stock"`
	Sales      int     `json:"sales"`
	Returns    int     `json:"returns"`
	ReturnRate float64 `json:"returnRate"`
	Profit     float64 `json:"profit"`
}

// Totals aggregates the report lines
type Totals struct {
	Stock   int     `json:"stock"`
	Sales   int     `json:"sales"`
	Returns int     `json:"returns"`
	Profit  float64 `json:"profit"`
}

// Report is the full warehouse report
type Report struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Currency    models.Currency `json:"currency"`
	Lines       []ProductLine   `json:"lines"`
	Totals      Totals          `json:"totals"`
}

// Build computes the warehouse report from the current snapshot. Profit is
// margin times units actually sold (gross sales minus returns); return rate
// is returns over sales.
func Build(state models.InventoryState, now time.Time) Report {
	currency := models.CurrencyEUR
	if state.Settings != nil {
		currency = state.Settings.Currency
	}

	r := Report{GeneratedAt: now, Currency: currency}
	for _, p := range state.FinishedProducts {
		sales, returns := 0, 0
		for _, txn := range p.History {
			switch txn.Type {
			case models.TransactionSale:
				sales++
			case models.TransactionReturn:
				returns++
			}
		}

		returnRate := 0.0
		if sales > 0 {
			returnRate = float64(returns) / float64(sales) * 100
		}
		margin := p.SellingPrice - p.CostPerUnit
		profit := float64(sales-returns) * margin

		r.Lines = append(r.Lines, ProductLine{
			ProductID:  p.ID,
			Name:       p.Name,
			Stock:      p.Quantity,
			Sales:      sales,
			Returns:    returns,
			ReturnRate: returnRate,
			Profit:     profit,
		})

		r.Totals.Stock += p.Quantity
		r.Totals.Sales += sales
		r.Totals.Returns += returns
		r.Totals.Profit += profit
	}
	return r
}

// ShareText renders the report as the plain-text summary used by the share
// action
func ShareText(r Report) string {
	symbol := r.Currency.Symbol()
	var b strings.Builder

	b.WriteString("📦 WAXPRO MANAGER - WAREHOUSE REPORT\n")
	b.WriteString(fmt.Sprintf("📅 Date: %s\n", r.GeneratedAt.Format("02/01/2006")))
	b.WriteString("--------------------------------\n")

	for _, line := range r.Lines {
		b.WriteString(fmt.Sprintf("📍 %s\n", strings.ToUpper(line.Name)))
		b.WriteString(fmt.Sprintf("   📦 Stock: %d pcs\n", line.Stock))
		b.WriteString(fmt.Sprintf("   🔄 Returns: %.1f%%\n", line.ReturnRate))
		b.WriteString(fmt.Sprintf("   💰 Profit: %s %.2f\n", symbol, line.Profit))
		b.WriteString("--------------------------------\n")
	}

	b.WriteString("🔥 GRAND TOTALS\n")
	b.WriteString(fmt.Sprintf("📦 Total stock: %d pcs\n", r.Totals.Stock))
	b.WriteString(fmt.Sprintf("💰 Total profit: %s %.2f\n", symbol, r.Totals.Profit))
	b.WriteString("--------------------------------\n")
	b.WriteString("Powered by WaxPro Manager")
	return b.String()
}

// ProductShareText renders a single product's statistics summary
func ProductShareText(product models.FinishedProduct, sales, returns, restocks int, revenue float64, periodLabel string, currency models.Currency) string {
	symbol := currency.Symbol()
	var b strings.Builder

	b.WriteString("📊 WAXPRO MANAGER - SALES REPORT\n")
	b.WriteString(fmt.Sprintf("📦 Product: %s\n", product.Name))
	b.WriteString(fmt.Sprintf("📅 Period: %s\n", periodLabel))
	b.WriteString("------------------------------\n")
	b.WriteString(fmt.Sprintf("🛒 SALES: %d pcs\n", sales))
	b.WriteString(fmt.Sprintf("🔄 RETURNS: %d pcs\n", returns))
	b.WriteString(fmt.Sprintf("📦 RESTOCKS: %d pcs\n", restocks))
	b.WriteString("------------------------------\n")
	b.WriteString(fmt.Sprintf("💰 REVENUE: %s %.2f\n", symbol, revenue))
	b.WriteString(fmt.Sprintf("📍 CURRENT STOCK: %d pcs", product.Quantity))
	return b.String()
}
