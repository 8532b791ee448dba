package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dom "github.com/serh11pashkov/resumebuilder/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Manager, *RevocationStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := newTestManager(t)
	revoked := NewRevocationStore(rdb)

	r := gin.New()
	r.GET("/me", RequireAuth(tokens, revoked), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	r.GET("/admin", RequireAuth(tokens, revoked), RequireRole(dom.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, tokens, revoked
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doGet(r, "/me", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"message":"authorization required"}`, w.Body.String())
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doGet(r, "/me", "bogus")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	r, tokens, _ := newTestRouter(t)

	token, err := tokens.CreateAccess(testUser)
	require.NoError(t, err)

	w := doGet(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"username":"ann"}`, w.Body.String())
}

func TestRequireAuthRevokedToken(t *testing.T) {
	r, tokens, revoked := newTestRouter(t)

	token, err := tokens.CreateAccess(testUser)
	require.NoError(t, err)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)

	w := doGet(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, revoked.Revoke(t.Context(), claims.ID, claims.ExpiresAt.Time))
	w = doGet(r, "/me", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, tokens, _ := newTestRouter(t)

	plain := dom.User{ID: 8, Username: "bob", Roles: []string{dom.RoleUser}}
	plainToken, err := tokens.CreateAccess(plain)
	require.NoError(t, err)
	adminToken, err := tokens.CreateAccess(testUser)
	require.NoError(t, err)

	// a known caller without the role gets 403, not 401
	w := doGet(r, "/admin", plainToken)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.JSONEq(t, `{"message":"insufficient role"}`, w.Body.String())

	w = doGet(r, "/admin", adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	// anonymous stays 401
	w = doGet(r, "/admin", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRevocationStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	revoked := NewRevocationStore(rdb)

	// revoking an already expired token is a no-op
	require.NoError(t, revoked.Revoke(t.Context(), "old", time.Now().Add(-time.Minute)))
	got, err := revoked.IsRevoked(t.Context(), "old")
	require.NoError(t, err)
	require.False(t, got)

	require.NoError(t, revoked.Revoke(t.Context(), "live", time.Now().Add(time.Hour)))
	got, err = revoked.IsRevoked(t.Context(), "live")
	require.NoError(t, err)
	require.True(t, got)

	// the denylist entry lapses with the token itself
	mr.FastForward(2 * time.Hour)
	got, err = revoked.IsRevoked(t.Context(), "live")
	require.NoError(t, err)
	require.False(t, got)
}
