package client

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/serh11pashkov/resumebuilder/internal/session"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, stored string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "credentials.json")
	if stored != "" {
		require.NoError(t, os.WriteFile(path, []byte(stored), 0o600))
	}
	return New(srv.URL, session.NewStore(srv.URL, path))
}

func TestAttachesBearerHeader(t *testing.T) {
	c := newTestClient(t, `{"id":7,"token":"tok"}`, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "/api/users/me", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":7,"username":"ann"}`))
	})

	me, err := c.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ann", me.Username)
}

func TestNoHeaderWhenLoggedOut(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	list, err := c.Gallery(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMyResumesUsesPrimaryID(t *testing.T) {
	c := newTestClient(t, `{"userId":"12","token":"tok"}`, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/resumes/user/12", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"id":1,"title":"Mine"}]}`))
	})

	list, err := c.MyResumes(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Mine", list[0].Title)
}

func TestMyResumesRequiresLogin(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.MyResumes(t.Context())
	require.EqualError(t, err, "not logged in")
}

func TestServerErrorSurfaced(t *testing.T) {
	c := newTestClient(t, `{"id":7,"token":"tok"}`, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"not allowed to access this resume"}`))
	})

	_, err := c.Resume(t.Context(), 5)
	require.ErrorContains(t, err, "not allowed to access this resume")
	require.ErrorContains(t, err, "403")
}

func TestExportPDFRaw(t *testing.T) {
	c := newTestClient(t, `{"id":7,"token":"tok"}`, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/resumes/5/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4\nfake"))
	})

	data, err := c.ExportPDF(t.Context(), 5)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4\nfake", string(data))
}
