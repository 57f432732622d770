package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/candleworks/waxpro/internal/cloud"
)

// credentialsRequest is the body of signup and sign-in requests
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// respondResult maps an auth result to the HTTP response
func respondResult(w http.ResponseWriter, result cloud.Result) {
	if !result.Success {
		respondJSON(w, http.StatusBadRequest, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// signUp registers a backend account; the merge runs via the SIGNED_IN event
func (r *Router) signUp(w http.ResponseWriter, req *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	respondResult(w, r.cloud.SignUp(req.Context(), body.Email, body.Password))
}

// signIn authenticates against the sync backend
func (r *Router) signIn(w http.ResponseWriter, req *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	respondResult(w, r.cloud.SignIn(req.Context(), body.Email, body.Password))
}

// signOut detaches the cloud identity. Local inventory data is kept.
func (r *Router) signOut(w http.ResponseWriter, req *http.Request) {
	respondResult(w, r.cloud.SignOut(req.Context()))
}

// requestRecovery asks the backend to send a password-recovery email
func (r *Router) requestRecovery(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Email      string `json:"email"`
		RedirectTo string `json:"redirect_to"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	respondResult(w, r.cloud.RequestPasswordReset(req.Context(), body.Email, body.RedirectTo))
}

// adoptRecovery installs the session carried by a recovery link
func (r *Router) adoptRecovery(w http.ResponseWriter, req *http.Request) {
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	respondResult(w, r.cloud.AdoptRecoverySession(body.AccessToken))
}

// completeRecovery dismisses the recovery view without changing the password
func (r *Router) completeRecovery(w http.ResponseWriter, req *http.Request) {
	r.gate.CompleteRecovery()
	respondJSON(w, http.StatusOK, map[string]bool{"recovering": false})
}

// updatePassword sets a new password, closing the recovery gate on success
func (r *Router) updatePassword(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result := r.cloud.UpdatePassword(req.Context(), body.Password)
	if result.Success {
		r.gate.CompleteRecovery()
		r.center.Success("Password updated")
	}
	respondResult(w, result)
}

// sessionStatus reports the auth state the UI renders from
func (r *Router) sessionStatus(w http.ResponseWriter, req *http.Request) {
	status := map[string]interface{}{
		"enabled":      r.cloud.Enabled(),
		"signedIn":     false,
		"recovering":   r.gate.Recovering(),
		"sessionReady": r.gate.SessionReady(),
	}
	if session := r.cloud.Session(); session != nil {
		status["signedIn"] = true
		status["user"] = session.User
	}
	respondJSON(w, http.StatusOK, status)
}

// deleteAccount removes the remote snapshot, signs out and wipes local data.
// Remote deletion runs first; if it fails nothing local is touched.
func (r *Router) deleteAccount(w http.ResponseWriter, req *http.Request) {
	session := r.cloud.Session()
	if session == nil {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}

	if err := r.cloud.DeleteAll(req.Context(), session.User.ID); err != nil {
		respondError(w, http.StatusBadGateway, "Could not delete cloud data: "+err.Error())
		return
	}

	r.cloud.SignOut(req.Context())
	r.manager.ClearLocal()
	r.center.Info("Account deleted")
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
