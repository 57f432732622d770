package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/candleworks/waxpro/internal/models"
)

type memUserStore struct {
	byID map[string]*models.CloudUser
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[string]*models.CloudUser)}
}

func (m *memUserStore) Create(user *models.CloudUser) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memUserStore) FindByEmail(email string) (*models.CloudUser, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", email)
}

func (m *memUserStore) FindByID(id string) (*models.CloudUser, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s not found", id)
}

func (m *memUserStore) UpdatePassword(id, hash string) error {
	u, err := m.FindByID(id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.RecoveryToken = nil
	return nil
}

func (m *memUserStore) SetRecovery(id, token string) error {
	u, err := m.FindByID(id)
	if err != nil {
		return err
	}
	u.RecoveryToken = &token
	return nil
}

func (m *memUserStore) TouchLogin(id string) error { return nil }

type memSnapshotStore struct {
	rows map[string]*models.UserData
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{rows: make(map[string]*models.UserData)}
}

func (m *memSnapshotStore) Upsert(row *models.UserData) error {
	copied := *row
	m.rows[row.UserID] = &copied
	return nil
}

func (m *memSnapshotStore) Fetch(userID string) (*models.UserData, error) {
	return m.rows[userID], nil
}

func (m *memSnapshotStore) Delete(userID string) error {
	delete(m.rows, userID)
	return nil
}

func newTestServer() *Server {
	return NewServer(newMemUserStore(), newMemSnapshotStore(), "test-secret")
}

func doRequest(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

type sessionPayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func signUpSession(t *testing.T, s *Server, email, password string) sessionPayload {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/auth/v1/signup", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup returned %d: %s", rec.Code, rec.Body.String())
	}

	var session sessionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.AccessToken == "" || session.User.ID == "" {
		t.Fatalf("incomplete session payload: %s", rec.Body.String())
	}
	return session
}

func TestSignupAndPasswordGrant(t *testing.T) {
	s := newTestServer()
	signUpSession(t, s, "maker@example.com", "hunter22")

	rec := doRequest(t, s, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email": "maker@example.com", "password": "hunter22",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("token returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email": "maker@example.com", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password must return 401, got %d", rec.Code)
	}
}

func TestSignupRejectsDuplicatesAndShortPasswords(t *testing.T) {
	s := newTestServer()
	signUpSession(t, s, "maker@example.com", "hunter22")

	rec := doRequest(t, s, http.MethodPost, "/auth/v1/signup", "", map[string]string{
		"email": "maker@example.com", "password": "hunter22",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate email must return 400, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/auth/v1/signup", "", map[string]string{
		"email": "short@example.com", "password": "abc",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short password must return 400, got %d", rec.Code)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestServer()
	session := signUpSession(t, s, "maker@example.com", "hunter22")

	payload := json.RawMessage(`{"schemaVersion":2,"finishedProducts":[{"id":"p1","name":"Candle"}],"rawMaterials":[]}`)
	rec := doRequest(t, s, http.MethodPost, "/rest/v1/user_data?on_conflict=user_id", session.AccessToken, map[string]interface{}{
		"user_id": session.User.ID,
		"payload": payload,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("upsert returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/rest/v1/user_data?select=payload&user_id=eq."+session.User.ID, session.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch returned %d: %s", rec.Code, rec.Body.String())
	}

	var rows []struct {
		Payload models.InventoryState `json:"payload"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal rows: %v", err)
	}
	if len(rows) != 1 || len(rows[0].Payload.FinishedProducts) != 1 {
		t.Fatalf("expected one row with one product, got %s", rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodDelete, "/rest/v1/user_data?user_id=eq."+session.User.ID, session.AccessToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete returned %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/rest/v1/user_data?select=payload&user_id=eq."+session.User.ID, session.AccessToken, nil)
	if body := rec.Body.String(); rec.Code != http.StatusOK || len(body) > 3 {
		t.Errorf("a deleted snapshot must fetch as an empty array, got %s", body)
	}
}

func TestSnapshotRowsAreOwnerScoped(t *testing.T) {
	s := newTestServer()
	alice := signUpSession(t, s, "alice@example.com", "hunter22")
	mallory := signUpSession(t, s, "mallory@example.com", "hunter22")

	rec := doRequest(t, s, http.MethodPost, "/rest/v1/user_data?on_conflict=user_id", mallory.AccessToken, map[string]interface{}{
		"user_id": alice.User.ID,
		"payload": json.RawMessage(`{}`),
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("writing another user's row must return 403, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/rest/v1/user_data?user_id=eq."+alice.User.ID, mallory.AccessToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("reading another user's row must return 403, got %d", rec.Code)
	}
}

func TestDataEndpointsRequireAuth(t *testing.T) {
	s := newTestServer()

	rec := doRequest(t, s, http.MethodGet, "/rest/v1/user_data?user_id=eq.x", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token must return 401, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/rest/v1/user_data?user_id=eq.x", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("a garbage token must return 401, got %d", rec.Code)
	}
}

func TestRecoverAlwaysAccepted(t *testing.T) {
	s := newTestServer()
	signUpSession(t, s, "maker@example.com", "hunter22")

	for _, email := range []string{"maker@example.com", "nobody@example.com"} {
		rec := doRequest(t, s, http.MethodPost, "/auth/v1/recover", "", map[string]string{
			"email": email, "redirect_to": "http://localhost:3180/",
		})
		if rec.Code != http.StatusOK {
			t.Errorf("recover(%s) must return 200 regardless of account existence, got %d", email, rec.Code)
		}
	}
}

func TestPasswordUpdate(t *testing.T) {
	s := newTestServer()
	session := signUpSession(t, s, "maker@example.com", "hunter22")

	rec := doRequest(t, s, http.MethodPut, "/auth/v1/user", session.AccessToken, map[string]string{
		"password": "newsecret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("password update returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email": "maker@example.com", "password": "newsecret",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("sign-in with the new password must succeed, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email": "maker@example.com", "password": "hunter22",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("the old password must stop working, got %d", rec.Code)
	}
}
