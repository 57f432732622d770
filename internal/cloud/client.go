// Package cloud is a thin binding to the hosted sync backend: email/password
// authentication plus row-level access to the single-snapshot-per-user
// user_data table. Every failure is converted into a result value at this
// boundary; nothing here is fatal to the application.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/candleworks/waxpro/internal/config"
	"github.com/candleworks/waxpro/internal/models"
)

// Result is the outcome of an auth operation surfaced to the UI
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// AuthListener receives auth-state change notifications
type AuthListener func(event AuthEvent, session *Session)

// Client talks to the sync backend over HTTP/JSON
type Client struct {
	baseURL     string
	apiKey      string
	redirectURL string
	httpClient  *http.Client

	mu        sync.RWMutex
	session   *Session
	listeners []AuthListener
}

// newHTTPClient creates an HTTP client with forced IPv4 dialing
func newHTTPClient(timeout time.Duration) *http.Client {
	ipv4Dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return ipv4Dialer.DialContext(ctx, "tcp4", addr)
			},
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
	}
}

// NewClient creates a sync backend client. An empty base URL yields a
// disabled client: auth operations fail softly and the node stays local-only.
func NewClient(cfg config.CloudConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		redirectURL: cfg.RedirectURL,
		httpClient:  newHTTPClient(cfg.Timeout),
	}
}

// Enabled reports whether a sync backend is configured
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Session returns the current session, or nil when signed out
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// OnAuthChange subscribes to auth-state change events
func (c *Client) OnAuthChange(fn AuthListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Client) emit(event AuthEvent, session *Session) {
	c.mu.RLock()
	listeners := append([]AuthListener(nil), c.listeners...)
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(event, session)
	}
}

func (c *Client) setSession(session *Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

// credentials is the body of signup and password-grant requests
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is the backend's token payload
type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	Error string `json:"error,omitempty"`
	Msg   string `json:"msg,omitempty"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, auth bool) (*http.Response, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("no sync backend configured")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if auth {
		session := c.Session()
		if session == nil {
			return nil, fmt.Errorf("not signed in")
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	return c.httpClient.Do(req)
}

func decodeSession(resp *http.Response) (*Session, string) {
	defer resp.Body.Close()

	var payload sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Sprintf("unreadable backend response: %v", err)
	}

	if resp.StatusCode >= 400 {
		msg := payload.Msg
		if msg == "" {
			msg = payload.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return nil, msg
	}

	session, err := sessionFromToken(payload.AccessToken)
	if err != nil {
		return nil, err.Error()
	}
	session.RefreshToken = payload.RefreshToken
	if payload.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	}
	// Prefer the identity the backend spelled out over token claims
	if payload.User.ID != "" {
		session.User = models.UserProfile{ID: payload.User.ID, Email: payload.User.Email}
	}
	return session, ""
}

// SignUp registers a new account and signs it in on success
func (c *Client) SignUp(ctx context.Context, email, password string) Result {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", credentials{Email: email, Password: password}, false)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	session, msg := decodeSession(resp)
	if session == nil {
		return Result{Success: false, Message: msg}
	}

	c.setSession(session)
	c.emit(EventSignedIn, session)
	return Result{Success: true}
}

// SignIn authenticates with email and password
func (c *Client) SignIn(ctx context.Context, email, password string) Result {
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password}, false)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	session, msg := decodeSession(resp)
	if session == nil {
		return Result{Success: false, Message: msg}
	}

	c.setSession(session)
	c.emit(EventSignedIn, session)
	return Result{Success: true}
}

// SignOut ends the session. The backend call is best effort; the local
// session is always cleared and SIGNED_OUT is always emitted.
func (c *Client) SignOut(ctx context.Context) Result {
	if c.Session() != nil {
		if resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, true); err == nil {
			resp.Body.Close()
		}
	}
	c.setSession(nil)
	c.emit(EventSignedOut, nil)
	return Result{Success: true}
}

// recoverRequest is the body of a password-reset email request
type recoverRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// RequestPasswordReset asks the backend to send a recovery email. The link
// lands on the configured redirect target, which carries the recovery marker.
func (c *Client) RequestPasswordReset(ctx context.Context, email, redirectTo string) Result {
	if redirectTo == "" {
		redirectTo = c.redirectURL
	}
	resp, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/recover", recoverRequest{Email: email, RedirectTo: redirectTo}, false)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Result{Success: false, Message: fmt.Sprintf("backend returned status %d", resp.StatusCode)}
	}
	return Result{Success: true}
}

// UpdatePassword sets a new password for the signed-in user
func (c *Client) UpdatePassword(ctx context.Context, newPassword string) Result {
	resp, err := c.doJSON(ctx, http.MethodPut, "/auth/v1/user", map[string]string{"password": newPassword}, true)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload sessionResponse
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Msg
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return Result{Success: false, Message: msg}
	}
	return Result{Success: true}
}

// AdoptRecoverySession installs a session delivered by a recovery link and
// emits PASSWORD_RECOVERY. Runs synchronously so the recovery gate is set
// before any other auth activity.
func (c *Client) AdoptRecoverySession(accessToken string) Result {
	session, err := sessionFromToken(accessToken)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	c.setSession(session)
	c.emit(EventPasswordRecovery, session)
	return Result{Success: true}
}

// upsertRow mirrors the user_data table shape
type upsertRow struct {
	UserID    string                `json:"user_id"`
	Payload   models.InventoryState `json:"payload"`
	UpdatedAt string                `json:"updated_at"`
}

// Upsert writes the full snapshot for a user. The backend holds exactly one
// row per user; this replaces it.
func (c *Client) Upsert(ctx context.Context, userID string, state models.InventoryState) error {
	row := upsertRow{
		UserID:    userID,
		Payload:   state.WithoutLocalMeta(),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/rest/v1/user_data?on_conflict=user_id", row, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("upsert failed with status %d", resp.StatusCode)
	}
	return nil
}

// Fetch reads the snapshot for a user. Zero rows is not an error; the
// returned pointer is nil when no remote data exists.
func (c *Client) Fetch(ctx context.Context, userID string) (*models.InventoryState, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/rest/v1/user_data?select=payload&user_id=eq."+userID, nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch failed with status %d", resp.StatusCode)
	}

	var rows []struct {
		Payload models.InventoryState `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("unreadable fetch response: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	state := rows[0].Payload.Normalize()
	return &state, nil
}

// DeleteAll removes every row for a user (account deletion)
func (c *Client) DeleteAll(ctx context.Context, userID string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/rest/v1/user_data?user_id=eq."+userID, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("delete failed with status %d", resp.StatusCode)
	}
	return nil
}
