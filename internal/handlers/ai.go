package handlers

import (
	"encoding/json"
	"net/http"
)

// aiDescribe drafts a marketing description for a candle
func (r *Router) aiDescribe(w http.ResponseWriter, req *http.Request) {
	if r.suggester == nil {
		respondError(w, http.StatusServiceUnavailable, "AI suggestions are not configured")
		return
	}

	var body struct {
		Name      string `json:"name"`
		Fragrance string `json:"fragrance"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	text, err := r.suggester.ProductDescription(req.Context(), body.Name, body.Fragrance)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}

// aiPairings suggests fragrance oils pairing with a base scent
func (r *Router) aiPairings(w http.ResponseWriter, req *http.Request) {
	if r.suggester == nil {
		respondError(w, http.StatusServiceUnavailable, "AI suggestions are not configured")
		return
	}

	var body struct {
		BaseScent string `json:"baseScent"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	text, err := r.suggester.FragrancePairings(req.Context(), body.BaseScent)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"text": text})
}
