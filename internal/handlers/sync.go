package handlers

import "net/http"

// syncNow forces an immediate full sync
func (r *Router) syncNow(w http.ResponseWriter, req *http.Request) {
	if ok := r.orch.SyncNow(req.Context()); !ok {
		respondError(w, http.StatusBadGateway, "Sync failed")
		return
	}
	respondJSON(w, http.StatusOK, r.orch.Status())
}

// syncStatus reports the orchestrator state
func (r *Router) syncStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.orch.Status())
}

// listNotifications returns the recent notification buffer
func (r *Router) listNotifications(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.center.Recent())
}
