package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/candleworks/waxpro/internal/calc"
	"github.com/candleworks/waxpro/internal/models"
	"github.com/gorilla/mux"
)

// listMaterials returns every raw material
func (r *Router) listMaterials(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.manager.Snapshot().RawMaterials)
}

// createMaterial adds a raw material
func (r *Router) createMaterial(w http.ResponseWriter, req *http.Request) {
	var material models.RawMaterial
	if err := json.NewDecoder(req.Body).Decode(&material); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if material.Name == "" {
		respondError(w, http.StatusBadRequest, "Material name is required")
		return
	}

	created := r.manager.AddRawMaterial(req.Context(), material)
	respondJSON(w, http.StatusCreated, created)
}

// deleteMaterial removes a raw material
func (r *Router) deleteMaterial(w http.ResponseWriter, req *http.Request) {
	if err := r.manager.DeleteRawMaterial(req.Context(), mux.Vars(req)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getSettings returns the user preferences, or null before onboarding
func (r *Router) getSettings(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.manager.Snapshot().Settings)
}

// calcSplit computes the wax/fragrance/colorant weight split
func (r *Router) calcSplit(w http.ResponseWriter, req *http.Request) {
	var in calc.SplitInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := calc.Split(in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// calcCost sums the per-candle production cost components
func (r *Router) calcCost(w http.ResponseWriter, req *http.Request) {
	var in calc.CostInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{"total": calc.TotalCost(in)})
}
