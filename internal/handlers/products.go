package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/candleworks/waxpro/internal/models"
	"github.com/candleworks/waxpro/internal/report"
	"github.com/candleworks/waxpro/internal/stats"
	"github.com/gorilla/mux"
)

// listProducts returns every finished product
func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.manager.Snapshot().FinishedProducts)
}

// findProduct looks a product up in the current snapshot
func (r *Router) findProduct(id string) (models.FinishedProduct, bool) {
	for _, p := range r.manager.Snapshot().FinishedProducts {
		if p.ID == id {
			return p, true
		}
	}
	return models.FinishedProduct{}, false
}

// getProduct returns one product with its history
func (r *Router) getProduct(w http.ResponseWriter, req *http.Request) {
	product, found := r.findProduct(mux.Vars(req)["id"])
	if !found {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// createProduct adds a finished product
func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var product models.FinishedProduct
	if err := json.NewDecoder(req.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if product.Name == "" {
		respondError(w, http.StatusBadRequest, "Product name is required")
		return
	}

	created := r.manager.AddProduct(req.Context(), product)
	respondJSON(w, http.StatusCreated, created)
}

// updateProduct replaces a product's editable fields
func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	var product models.FinishedProduct
	if err := json.NewDecoder(req.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	product.ID = mux.Vars(req)["id"]

	if err := r.manager.UpdateProduct(req.Context(), product); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	updated, _ := r.findProduct(product.ID)
	respondJSON(w, http.StatusOK, updated)
}

// deleteProduct removes a product and its history
func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	if err := r.manager.DeleteProduct(req.Context(), mux.Vars(req)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// transactionRequest is the body of a stock-movement request
type transactionRequest struct {
	Type models.TransactionType `json:"type"`
}

// recordTransaction applies one SALE/RESTOCK/RETURN movement
func (r *Router) recordTransaction(w http.ResponseWriter, req *http.Request) {
	var body transactionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	switch body.Type {
	case models.TransactionSale, models.TransactionRestock, models.TransactionReturn:
	default:
		respondError(w, http.StatusBadRequest, "Unknown transaction type")
		return
	}

	product, lowStock, err := r.manager.RecordTransaction(req.Context(), mux.Vars(req)["id"], body.Type)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"product":  product,
		"lowStock": lowStock,
	})
}

// statsPeriod reads the period query parameter, defaulting to DAILY
func statsPeriod(req *http.Request) stats.Period {
	if p := req.URL.Query().Get("period"); p != "" {
		return stats.Period(p)
	}
	return stats.PeriodDaily
}

// productStats returns movement statistics for one product
func (r *Router) productStats(w http.ResponseWriter, req *http.Request) {
	product, found := r.findProduct(mux.Vars(req)["id"])
	if !found {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	s, err := stats.ForProduct(product, statsPeriod(req), time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats":     s,
		"breakdown": stats.Breakdown(s),
	})
}

// periodLabels maps a stats period to its share-text label
var periodLabels = map[stats.Period]string{
	stats.PeriodDaily:   "Last 7 days",
	stats.PeriodWeekly:  "Last 8 weeks",
	stats.PeriodMonthly: "Last 12 months",
	stats.PeriodYearly:  "Last 5 years",
}

// productStatsShare returns the plain-text statistics summary for sharing
func (r *Router) productStatsShare(w http.ResponseWriter, req *http.Request) {
	product, found := r.findProduct(mux.Vars(req)["id"])
	if !found {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	period := statsPeriod(req)
	s, err := stats.ForProduct(product, period, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	currency := models.CurrencyEUR
	if settings := r.manager.Snapshot().Settings; settings != nil {
		currency = settings.Currency
	}

	text := report.ProductShareText(product, s.Sales, s.Returns, s.Restocks, s.Revenue, periodLabels[period], currency)
	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}
