package cloud

import (
	"fmt"
	"time"

	"github.com/candleworks/waxpro/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// AuthEvent is an auth-state change notification
type AuthEvent string

const (
	EventSignedIn         AuthEvent = "SIGNED_IN"
	EventSignedOut        AuthEvent = "SIGNED_OUT"
	EventPasswordRecovery AuthEvent = "PASSWORD_RECOVERY"
)

// Session is an authenticated session with the sync backend
type Session struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time          `json:"expires_at"`
	User         models.UserProfile `json:"user"`
}

// Expired reports whether the session's access token has expired
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// sessionFromToken builds a Session by reading claims out of an access token.
// The backend signed the token; the client only needs the identity inside it,
// so the signature is not re-verified here.
func sessionFromToken(accessToken string) (*Session, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(accessToken, claims)
	if err != nil {
		return nil, fmt.Errorf("unreadable access token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("access token has no subject")
	}
	email, _ := claims["email"].(string)

	session := &Session{
		AccessToken: accessToken,
		User:        models.UserProfile{ID: sub, Email: email},
	}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return session, nil
}
