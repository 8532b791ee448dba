package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AuthError reports a signin or signup rejected by the backend, or a login
// response missing a usable credential. Never retried automatically.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// Store owns the current identity for one client process: it performs
// signin/signup round-trips, persists the normalized record to a single
// JSON credentials file, and serves it to authorization checks. Concurrent
// processes sharing the same file are last-writer-wins.
type Store struct {
	baseURL string
	path    string
	httpc   *http.Client
	now     func() time.Time
	current *Identity
}

// NewStore returns a Store talking to the backend at baseURL and keeping
// credentials at path.
func NewStore(baseURL, path string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

// loginPayload tolerates every shape the signin endpoint has historically
// produced: the credential under token or accessToken, the identifier
// under any alias name or sub.
type loginPayload struct {
	Token       string   `json:"token"`
	AccessToken string   `json:"accessToken"`
	ID          ID       `json:"id"`
	UserID      ID       `json:"userId"`
	LegacyID    ID       `json:"_id"`
	Sub         ID       `json:"sub"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       RoleList `json:"roles"`
}

// Login authenticates against the backend, canonicalizes the response into
// an Identity, persists it and returns it. Backend rejections and
// responses without a credential come back as *AuthError.
func (s *Store) Login(ctx context.Context, username, password string) (*Identity, error) {
	data, err := s.post(ctx, "/api/auth/signin", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var payload loginPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &AuthError{Message: "malformed login response"}
	}
	token := payload.AccessToken
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		return nil, &AuthError{Message: "no credential in response"}
	}

	id := &Identity{
		AliasID:  payload.ID,
		UserID:   payload.UserID,
		LegacyID: payload.LegacyID,
		Username: payload.Username,
		Email:    payload.Email,
		Token:    token,
		Roles:    payload.Roles,
	}
	if id.Username == "" {
		id.Username = username
	}
	// sub is only consulted when none of the alias fields came through.
	if payload.ID == "" && payload.UserID == "" && payload.LegacyID == "" {
		id.PrimaryID = payload.Sub
	}
	if !Normalize(id, s.now()) {
		return nil, &AuthError{Message: "login response missing identity"}
	}
	if err := s.save(id); err != nil {
		return nil, err
	}
	s.current = id
	return id, nil
}

// Register creates an account. roles are informal hints ("admin", "user")
// the backend maps to canonical labels.
func (s *Store) Register(ctx context.Context, username, email, password string, roles []string) error {
	_, err := s.post(ctx, "/api/auth/signup", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
		"roles":    roles,
	})
	return err
}

// Logout drops the persisted identity and the in-memory copy. Calling it
// with no identity stored is a no-op.
func (s *Store) Logout() error {
	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Current returns the current identity, rehydrating from the credentials
// file when needed. Malformed stored data yields nil, never an error; an
// unrecoverable record is deleted so the next caller is forced to
// re-authenticate. Normalization results are written back.
func (s *Store) Current() *Identity {
	if s.current != nil {
		return s.current
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil
	}
	if !Normalize(&id, s.now()) {
		_ = os.Remove(s.path)
		return nil
	}
	_ = s.save(&id)
	s.current = &id
	return &id
}

// Header returns the auth headers for the current identity; empty when
// nobody is logged in.
func (s *Store) Header() http.Header {
	return AuthHeader(s.Current())
}

func (s *Store) post(ctx context.Context, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, authErrorFrom(data)
	}
	return data, nil
}

// authErrorFrom surfaces the backend's message when it sent one.
func authErrorFrom(body []byte) *AuthError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return &AuthError{Message: payload.Message}
		}
		if payload.Error != "" {
			return &AuthError{Message: payload.Error}
		}
	}
	return &AuthError{Message: "authentication failed"}
}

func (s *Store) save(id *Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}
