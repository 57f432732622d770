package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/candleworks/waxpro/internal/models"
)

// getState returns the full inventory snapshot
func (r *Router) getState(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.manager.Snapshot())
}

// exportBackup streams the snapshot as a downloadable JSON document
func (r *Router) exportBackup(w http.ResponseWriter, req *http.Request) {
	state := r.manager.Snapshot().WithoutLocalMeta()

	filename := fmt.Sprintf("waxpro_backup_%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(state)
}

// importBackup replaces the snapshot with an uploaded backup document
func (r *Router) importBackup(w http.ResponseWriter, req *http.Request) {
	var incoming models.InventoryState
	if err := json.NewDecoder(req.Body).Decode(&incoming); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid backup document")
		return
	}

	normalized := incoming.Normalize()
	r.manager.Update(req.Context(), normalized, false)
	r.center.Success("Backup imported")
	respondJSON(w, http.StatusOK, normalized)
}

// resetData clears all inventory data, keeping settings
func (r *Router) resetData(w http.ResponseWriter, req *http.Request) {
	r.manager.Reset(req.Context(), false)
	r.center.Info("All data cleared")
	respondJSON(w, http.StatusOK, r.manager.Snapshot())
}
