// Package relay implements the minimal sync backend contract consumed by the
// node: email/password authentication and row-level access to the
// single-snapshot-per-user user_data table.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type contextKey string

const userIDKey contextKey = "userID"

// Server wraps the mux router and the relay stores
type Server struct {
	*mux.Router
	users     UserStore
	snapshots SnapshotStore
	jwtSecret string
}

// NewServer creates the relay HTTP server with all routes
func NewServer(users UserStore, snapshots SnapshotStore, jwtSecret string) *Server {
	s := &Server{
		Router:    mux.NewRouter(),
		users:     users,
		snapshots: snapshots,
		jwtSecret: jwtSecret,
	}

	s.HandleFunc("/health", s.healthCheck).Methods("GET")

	auth := s.PathPrefix("/auth/v1").Subrouter()
	auth.HandleFunc("/signup", s.signup).Methods("POST")
	auth.HandleFunc("/token", s.token).Methods("POST")
	auth.Handle("/logout", s.requireAuth(http.HandlerFunc(s.logout))).Methods("POST")
	auth.HandleFunc("/recover", s.recover).Methods("POST")
	auth.Handle("/user", s.requireAuth(http.HandlerFunc(s.getUser))).Methods("GET")
	auth.Handle("/user", s.requireAuth(http.HandlerFunc(s.updateUser))).Methods("PUT")

	data := s.PathPrefix("/rest/v1").Subrouter()
	data.Handle("/user_data", s.requireAuth(http.HandlerFunc(s.upsertData))).Methods("POST")
	data.Handle("/user_data", s.requireAuth(http.HandlerFunc(s.fetchData))).Methods("GET")
	data.Handle("/user_data", s.requireAuth(http.HandlerFunc(s.deleteData))).Methods("DELETE")

	return s
}

// healthCheck returns the health status of the relay
func (s *Server) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "relay",
	})
}

// requireAuth verifies the Bearer token and stashes the user ID in context
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authHeader := req.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := s.validateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			respondError(w, http.StatusUnauthorized, "Invalid token subject")
			return
		}

		ctx := context.WithValue(req.Context(), userIDKey, sub)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// validateToken parses and validates a session token
func (s *Server) validateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// requestUserID reads the authenticated user ID from the request context
func requestUserID(req *http.Request) string {
	id, _ := req.Context().Value(userIDKey).(string)
	return id
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response in the shape the node client expects
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
		"msg":   message,
	})
}
