package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/candleworks/waxpro/internal/models"
)

// onboardingStatus reports the gate state the UI renders from
func (r *Router) onboardingStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"step":       r.gate.Step(),
		"active":     r.gate.Active(),
		"recovering": r.gate.Recovering(),
	})
}

// chooseLanguage records the first onboarding choice
func (r *Router) chooseLanguage(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Language models.Language `json:"language"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Language == "" {
		respondError(w, http.StatusBadRequest, "Language is required")
		return
	}

	if !r.gate.ChooseLanguage(body.Language) {
		respondError(w, http.StatusConflict, "Not at the language step")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"step": r.gate.Step()})
}

// chooseCurrency records the second onboarding choice and persists the
// now-complete settings
func (r *Router) chooseCurrency(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Currency models.Currency `json:"currency"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Currency == "" {
		respondError(w, http.StatusBadRequest, "Currency is required")
		return
	}

	settings, ok := r.gate.ChooseCurrency(body.Currency)
	if !ok {
		respondError(w, http.StatusConflict, "Not at the currency step")
		return
	}

	r.manager.UpdateSettings(req.Context(), settings)
	respondJSON(w, http.StatusOK, settings)
}

// reopenOnboarding re-enters the gate for an explicit settings edit
func (r *Router) reopenOnboarding(w http.ResponseWriter, req *http.Request) {
	r.gate.Reopen()
	respondJSON(w, http.StatusOK, map[string]interface{}{"step": r.gate.Step()})
}
