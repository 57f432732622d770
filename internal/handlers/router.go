// Package handlers is the node's HTTP surface: inventory state and mutations,
// auth proxying to the sync backend, sync control, reports, onboarding and the
// websocket stream consumed by the UI.
package handlers

import (
	"encoding/json"
	"io/fs"
	"log"
	"net/http"

	"github.com/candleworks/waxpro/internal/ai"
	"github.com/candleworks/waxpro/internal/cloud"
	"github.com/candleworks/waxpro/internal/notify"
	"github.com/candleworks/waxpro/internal/onboarding"
	"github.com/candleworks/waxpro/internal/state"
	syncer "github.com/candleworks/waxpro/internal/sync"
	ws "github.com/candleworks/waxpro/internal/websocket"
	"github.com/candleworks/waxpro/web"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the application services
type Router struct {
	*mux.Router
	manager   *state.Manager
	orch      *syncer.Orchestrator
	cloud     *cloud.Client
	gate      *onboarding.Gate
	hub       *ws.Hub
	center    *notify.Center
	suggester *ai.Suggester
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(manager *state.Manager, orch *syncer.Orchestrator, cloudClient *cloud.Client, gate *onboarding.Gate, hub *ws.Hub, center *notify.Center, suggester *ai.Suggester) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		manager:   manager,
		orch:      orch,
		cloud:     cloudClient,
		gate:      gate,
		hub:       hub,
		center:    center,
		suggester: suggester,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Websocket stream
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(r.hub, w, req)
	})

	api := r.PathPrefix("/api").Subrouter()

	// State and backup
	api.HandleFunc("/state", r.getState).Methods("GET")
	api.HandleFunc("/backup/export", r.exportBackup).Methods("GET")
	api.HandleFunc("/backup/import", r.importBackup).Methods("POST")
	api.HandleFunc("/reset", r.resetData).Methods("POST")

	// Finished products
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.createProduct).Methods("POST")
	api.HandleFunc("/products/{id}", r.getProduct).Methods("GET")
	api.HandleFunc("/products/{id}", r.updateProduct).Methods("PUT")
	api.HandleFunc("/products/{id}", r.deleteProduct).Methods("DELETE")
	api.HandleFunc("/products/{id}/transactions", r.recordTransaction).Methods("POST")
	api.HandleFunc("/products/{id}/stats", r.productStats).Methods("GET")
	api.HandleFunc("/products/{id}/stats/share", r.productStatsShare).Methods("GET")

	// Raw materials
	api.HandleFunc("/materials", r.listMaterials).Methods("GET")
	api.HandleFunc("/materials", r.createMaterial).Methods("POST")
	api.HandleFunc("/materials/{id}", r.deleteMaterial).Methods("DELETE")

	// Settings and onboarding
	api.HandleFunc("/settings", r.getSettings).Methods("GET")
	api.HandleFunc("/onboarding", r.onboardingStatus).Methods("GET")
	api.HandleFunc("/onboarding/language", r.chooseLanguage).Methods("POST")
	api.HandleFunc("/onboarding/currency", r.chooseCurrency).Methods("POST")
	api.HandleFunc("/onboarding/reopen", r.reopenOnboarding).Methods("POST")

	// Calculators
	api.HandleFunc("/calc/split", r.calcSplit).Methods("POST")
	api.HandleFunc("/calc/cost", r.calcCost).Methods("POST")

	// Reports
	api.HandleFunc("/report", r.getReport).Methods("GET")
	api.HandleFunc("/report/share", r.getReportShare).Methods("GET")
	api.HandleFunc("/report/pdf", r.getReportPDF).Methods("GET")

	// Sync control
	api.HandleFunc("/sync/now", r.syncNow).Methods("POST")
	api.HandleFunc("/sync/status", r.syncStatus).Methods("GET")

	// Notifications
	api.HandleFunc("/notifications", r.listNotifications).Methods("GET")

	// AI suggestions (enabled when a Gemini key is configured)
	api.HandleFunc("/ai/describe", r.aiDescribe).Methods("POST")
	api.HandleFunc("/ai/pairings", r.aiPairings).Methods("POST")

	// Auth proxy to the sync backend
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", r.signUp).Methods("POST")
	auth.HandleFunc("/signin", r.signIn).Methods("POST")
	auth.HandleFunc("/signout", r.signOut).Methods("POST")
	auth.HandleFunc("/recover", r.requestRecovery).Methods("POST")
	auth.HandleFunc("/recovery/adopt", r.adoptRecovery).Methods("POST")
	auth.HandleFunc("/recovery/complete", r.completeRecovery).Methods("POST")
	auth.HandleFunc("/password", r.updatePassword).Methods("PUT")
	auth.HandleFunc("/session", r.sessionStatus).Methods("GET")
	auth.HandleFunc("/account", r.deleteAccount).Methods("DELETE")

	// Static files: embedded web build, or FRONTEND_DIR in dev mode
	if assets, err := web.GetFileSystem(); err == nil {
		r.PathPrefix("/").Handler(spaHandler(assets))
	} else {
		log.Printf("⚠️  Web assets unavailable: %v", err)
	}

	return r
}

// spaHandler serves the static bundle, falling back to index.html for
// client-side routes
func spaHandler(assets fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(assets))
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path
		if path != "/" {
			if _, err := fs.Stat(assets, path[1:]); err != nil {
				req.URL.Path = "/"
			}
		}
		fileServer.ServeHTTP(w, req)
	})
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
