package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStore(srv.URL, filepath.Join(t.TempDir(), "credentials.json"))
}

func signinResponse(t *testing.T, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/signin", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestLoginCanonicalResponse(t *testing.T) {
	s := newTestStore(t, signinResponse(t,
		`{"accessToken":"abc","tokenType":"Bearer","id":7,"username":"ann","email":"ann@example.com","roles":["ROLE_USER","ROLE_ADMIN"]}`))

	id, err := s.Login(context.Background(), "ann", "pw")
	require.NoError(t, err)
	require.Equal(t, "abc", id.Token)
	require.Equal(t, ID("7"), id.PrimaryID)
	require.Equal(t, ID("7"), id.UserID)
	require.True(t, HasRole(id, "ROLE_ADMIN"))
	require.False(t, id.Degraded)
	require.Equal(t, "Bearer abc", s.Header().Get("Authorization"))
}

func TestLoginLegacyTokenField(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"token":"xyz","userId":"u-12"}`))

	id, err := s.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	require.Equal(t, "xyz", id.Token)
	require.Equal(t, ID("u-12"), id.PrimaryID)
	require.Equal(t, "bob", id.Username)
	require.Equal(t, RoleList{{Name: DefaultRole}}, id.Roles)
}

func TestLoginPrefersAccessToken(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"token":"old","accessToken":"new","id":1}`))

	id, err := s.Login(context.Background(), "ann", "pw")
	require.NoError(t, err)
	require.Equal(t, "new", id.Token)
}

func TestLoginSubFallback(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"accessToken":"abc","sub":42}`))

	id, err := s.Login(context.Background(), "ann", "pw")
	require.NoError(t, err)
	require.Equal(t, ID("42"), id.PrimaryID)
	require.False(t, id.Degraded)
}

func TestLoginSubIgnoredWhenAliasPresent(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"accessToken":"abc","id":7,"sub":99}`))

	id, err := s.Login(context.Background(), "ann", "pw")
	require.NoError(t, err)
	require.Equal(t, ID("7"), id.PrimaryID)
}

func TestLoginNoCredential(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"id":7,"username":"ann"}`))

	_, err := s.Login(context.Background(), "ann", "pw")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "no credential in response", authErr.Message)
	require.Nil(t, s.Current())
}

func TestLoginDegradedPlaceholder(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"accessToken":"abc"}`))
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	id, err := s.Login(context.Background(), "carol", "pw")
	require.NoError(t, err)
	require.True(t, id.Degraded)
	require.Equal(t, ID("user-carol-1700000000000"), id.PrimaryID)
}

func TestLoginBackendRejection(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid username or password"}`))
	})

	_, err := s.Login(context.Background(), "ann", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "invalid username or password", authErr.Message)
}

func TestLoginOpaqueRejection(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := s.Login(context.Background(), "ann", "pw")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "authentication failed", authErr.Message)
}

func TestCurrentRehydrates(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"accessToken":"abc","id":7,"roles":["ROLE_USER"]}`))

	logged, err := s.Login(context.Background(), "ann", "pw")
	require.NoError(t, err)

	// fresh store, same file: identity comes back from disk
	fresh := NewStore("http://unused", s.path)
	got := fresh.Current()
	require.NotNil(t, got)
	require.Equal(t, logged.PrimaryID, got.PrimaryID)
	require.Equal(t, logged.Token, got.Token)
}

func TestCurrentRepairsStoredRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"userId":12,"token":"tok"}`), 0o600))

	s := NewStore("http://unused", path)
	id := s.Current()
	require.NotNil(t, id)
	require.Equal(t, ID("12"), id.PrimaryID)
	require.Equal(t, RoleList{{Name: DefaultRole}}, id.Roles)

	// the repaired record was written back
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "primaryId")
	require.Contains(t, raw, "_id")
}

func TestCurrentDegradedStoredRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"username":"bob","token":"tok"}`), 0o600))

	s := NewStore("http://unused", path)
	id := s.Current()
	require.NotNil(t, id)
	require.True(t, id.Degraded)
	require.True(t, strings.HasPrefix(id.PrimaryID.String(), "user-bob-"))
}

func TestCurrentCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	s := NewStore("http://unused", path)
	require.Nil(t, s.Current())
}

func TestCurrentUnrecoverableRecordDeleted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok"}`), 0o600))

	s := NewStore("http://unused", path)
	require.Nil(t, s.Current())

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestLogoutIdempotent(t *testing.T) {
	s := newTestStore(t, signinResponse(t, `{"accessToken":"abc","id":7}`))

	_, err := s.Login(context.Background(), "ann", "pw")
	require.NoError(t, err)
	require.NotNil(t, s.Current())

	require.NoError(t, s.Logout())
	require.Nil(t, s.Current())
	require.Empty(t, s.Header())

	// a second logout with nothing stored is still fine
	require.NoError(t, s.Logout())
}

func TestRegister(t *testing.T) {
	var got map[string]any
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"user registered successfully"}`))
	})

	require.NoError(t, s.Register(context.Background(), "dave", "dave@example.com", "pw", []string{"admin"}))
	require.Equal(t, "dave", got["username"])
	require.Equal(t, []any{"admin"}, got["roles"])
}

func TestRegisterConflict(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"username already taken"}`))
	})

	err := s.Register(context.Background(), "dave", "d@example.com", "pw", nil)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "username already taken", authErr.Message)
}
