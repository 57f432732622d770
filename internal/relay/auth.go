package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/candleworks/waxpro/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = time.Hour

// CredentialsRequest is the body of signup and sign-in requests
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RecoverRequest is the body of a password-reset request
type RecoverRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// checkPasswordHash compares a password with a hash
func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// issueToken generates a session access token
func (s *Server) issueToken(user *models.CloudUser, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// respondSession writes the session payload for a user
func (s *Server) respondSession(w http.ResponseWriter, status int, user *models.CloudUser) {
	accessToken, err := s.issueToken(user, sessionTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate session")
		return
	}

	respondJSON(w, status, map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": uuid.NewString(),
		"expires_in":    int64(sessionTTL.Seconds()),
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// signup registers a new account and returns a session
func (s *Server) signup(w http.ResponseWriter, req *http.Request) {
	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if len(body.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password should be at least 6 characters")
		return
	}

	hash, err := hashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.CloudUser{
		ID:           uuid.NewString(),
		Email:        body.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(user); err != nil {
		respondError(w, http.StatusBadRequest, "User already registered")
		return
	}

	s.respondSession(w, http.StatusOK, user)
}

// token handles the password grant (sign in)
func (s *Server) token(w http.ResponseWriter, req *http.Request) {
	if req.URL.Query().Get("grant_type") != "password" {
		respondError(w, http.StatusBadRequest, "Unsupported grant type")
		return
	}

	var body CredentialsRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := s.users.FindByEmail(body.Email)
	if err != nil || !checkPasswordHash(body.Password, user.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}

	_ = s.users.TouchLogin(user.ID)
	s.respondSession(w, http.StatusOK, user)
}

// logout ends the session. Tokens are stateless, so this is an acknowledgment.
func (s *Server) logout(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// recover issues a password-recovery link. The link carries a short-lived
// session token plus the recovery marker; the node adopts it and opens the
// recovery view. Responds 200 regardless of whether the account exists.
func (s *Server) recover(w http.ResponseWriter, req *http.Request) {
	var body RecoverRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := s.users.FindByEmail(body.Email)
	if err == nil {
		token := uuid.NewString()
		if err := s.users.SetRecovery(user.ID, token); err == nil {
			accessToken, tokenErr := s.issueToken(user, 30*time.Minute)
			if tokenErr == nil {
				// No mailer configured: the recovery link is logged
				log.Printf("📧 Recovery link for %s: %s#type=recovery&access_token=%s",
					user.Email, body.RedirectTo, accessToken)
			}
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getUser returns the authenticated account
func (s *Server) getUser(w http.ResponseWriter, req *http.Request) {
	user, err := s.users.FindByID(requestUserID(req))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// updateUser sets a new password for the authenticated account
func (s *Server) updateUser(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(body.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password should be at least 6 characters")
		return
	}

	hash, err := hashPassword(body.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if err := s.users.UpdatePassword(requestUserID(req), hash); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
