package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsboard-labs/opsboard/internal/assets"
	"github.com/opsboard-labs/opsboard/internal/config"
	"github.com/opsboard-labs/opsboard/internal/metrics"
	"github.com/opsboard-labs/opsboard/internal/storage"
	"github.com/opsboard-labs/opsboard/internal/store"
	"github.com/opsboard-labs/opsboard/internal/testutil"
)

type fakeUserStore struct {
	users   []store.User
	touched []string
}

func (f *fakeUserStore) ListUsers(context.Context) ([]store.User, error) {
	return f.users, nil
}

func (f *fakeUserStore) TouchLogin(_ context.Context, email string) error {
	f.touched = append(f.touched, email)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:          config.DefaultPort,
		UIPrefix:      config.DefaultUIPrefix,
		APIPrefix:     config.DefaultAPIPrefix,
		SessionSecret: "test-secret",
	}
}

func newTestServer(t *testing.T, mutate func(*Options)) *Server {
	t.Helper()

	reg, err := assets.NewRegistry(fstest.MapFS{
		"index.html":    {Data: []byte("<!doctype html><title>Opsboard</title>")},
		"assets/app.js": {Data: []byte("console.log('app')")},
	}, config.DefaultUIPrefix)
	require.NoError(t, err)

	opts := Options{
		Config:   testConfig(),
		Logger:   testutil.NewTestLogger(t),
		Registry: reg,
		Metrics:  metrics.New(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(opts)
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func TestRouterServesAssets(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/admin/assets/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/admin/dashboard/settings", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Opsboard</title>")

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/admin/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterRootRedirect(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))
}

func TestRouterUnknownAPIRouteNeverServesHTML(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<title>")
}

func TestRouterUnmatchedRouteFallsBackToConsole(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/reports/weekly", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRouterHealthAndDebug(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/debug/assets", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var keys []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
	assert.Contains(t, keys, "/admin/index.html")
}

func TestRouterMetricsExposition(t *testing.T) {
	s := newTestServer(t, nil)

	// Generate one asset hit so the counter exists.
	doRequest(s, httptest.NewRequest(http.MethodGet, "/admin/assets/app.js", nil))

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "opsboard_asset_requests_total")
}

func TestListUsers(t *testing.T) {
	t.Run("no database configured", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("returns users", func(t *testing.T) {
		s := newTestServer(t, func(o *Options) {
			o.Users = &fakeUserStore{users: []store.User{
				{ID: 1, Email: "ops@example.com", Role: "admin", CreatedAt: time.Now()},
			}}
		})
		rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var users []store.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.Equal(t, "ops@example.com", users[0].Email)
	})
}

func login(t *testing.T, s *Server, body string) []*http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(body))
	rec := doRequest(s, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	return rec.Result().Cookies()
}

func TestSessionGate(t *testing.T) {
	users := &fakeUserStore{}
	s := newTestServer(t, func(o *Options) {
		o.Config.AdminToken = "hunter2"
		o.Users = users
	})

	// No session yet.
	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong token.
	rec = doRequest(s, httptest.NewRequest(http.MethodPost, "/api/session",
		strings.NewReader(`{"token":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid login issues a cookie that opens the gate.
	cookies := login(t, s, `{"token":"hunter2","email":"ops@example.com"}`)
	require.NotEmpty(t, cookies)
	assert.Equal(t, []string{"ops@example.com"}, users.touched)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = doRequest(s, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionLoginDisabled(t *testing.T) {
	s := newTestServer(t, nil) // no admin token

	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/api/session",
		strings.NewReader(`{"token":"anything"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Gate is open without a token.
	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/api/imageproxy", nil))
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadLifecycle(t *testing.T) {
	dir, err := storage.NewDirStore(t.TempDir())
	require.NoError(t, err)
	s := newTestServer(t, func(o *Options) { o.Objects = dir })

	body, contentType := multipartBody(t, "file", "diagram.png", "png-bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Key  string `json:"key"`
		Size int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasSuffix(created.Key, ".png"), "key %q should keep the extension", created.Key)
	assert.Equal(t, int64(len("png-bytes")), created.Size)

	rec = doRequest(s, httptest.NewRequest(http.MethodGet, "/api/uploads/"+created.Key, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = doRequest(s, httptest.NewRequest(http.MethodDelete, "/api/uploads/"+created.Key, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(s, httptest.NewRequest(http.MethodDelete, "/api/uploads/"+created.Key, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadMissingFileField(t *testing.T) {
	dir, err := storage.NewDirStore(t.TempDir())
	require.NoError(t, err)
	s := newTestServer(t, func(o *Options) { o.Objects = dir })

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", strings.NewReader("not multipart"))
	rec := doRequest(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t, "file", "a.txt", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)

	rec := doRequest(s, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
