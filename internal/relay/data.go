package relay

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/candleworks/waxpro/internal/models"
	"gorm.io/datatypes"
)

// upsertRequest is the body of a snapshot upsert
type upsertRequest struct {
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// upsertData stores the caller's snapshot, replacing any previous row
func (s *Server) upsertData(w http.ResponseWriter, req *http.Request) {
	var body upsertRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.UserID != requestUserID(req) {
		respondError(w, http.StatusForbidden, "Row does not belong to the authenticated user")
		return
	}
	if len(body.Payload) == 0 {
		respondError(w, http.StatusBadRequest, "Payload is required")
		return
	}

	row := &models.UserData{
		UserID:  body.UserID,
		Payload: datatypes.JSON(body.Payload),
	}
	if err := s.snapshots.Upsert(row); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store snapshot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// filteredUserID extracts the id from a PostgREST-style user_id=eq.<id> filter
func filteredUserID(req *http.Request) string {
	filter := req.URL.Query().Get("user_id")
	return strings.TrimPrefix(filter, "eq.")
}

// fetchData returns the snapshot rows matching the filter as a JSON array
func (s *Server) fetchData(w http.ResponseWriter, req *http.Request) {
	userID := filteredUserID(req)
	if userID == "" || userID != requestUserID(req) {
		respondError(w, http.StatusForbidden, "Row does not belong to the authenticated user")
		return
	}

	row, err := s.snapshots.Fetch(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch snapshot")
		return
	}

	rows := []map[string]json.RawMessage{}
	if row != nil {
		rows = append(rows, map[string]json.RawMessage{
			"payload": json.RawMessage(row.Payload),
		})
	}
	respondJSON(w, http.StatusOK, rows)
}

// deleteData removes the caller's snapshot row
func (s *Server) deleteData(w http.ResponseWriter, req *http.Request) {
	userID := filteredUserID(req)
	if userID == "" || userID != requestUserID(req) {
		respondError(w, http.StatusForbidden, "Row does not belong to the authenticated user")
		return
	}

	if err := s.snapshots.Delete(userID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
