package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/leakwatch/handlers"
	"p9e.in/leakwatch/middleware"
	"p9e.in/leakwatch/models"
	"p9e.in/leakwatch/storage"
)

type testServer struct {
	handler   http.Handler
	store     *storage.MemoryStore
	tokens    *middleware.JWT
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := storage.NewMemoryStore()
	tokens := middleware.NewJWT("test-secret")
	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: reg})
	require.NoError(t, err)
	dir := t.TempDir()

	h := handlers.New(handlers.Options{Store: store, UploadDir: dir, Tokens: tokens, Metrics: metrics})
	return &testServer{
		handler: RegisterRoutes(Deps{
			Handler:   h,
			Tokens:    tokens,
			Metrics:   metrics,
			Gatherer:  reg,
			UploadDir: dir,
		}),
		store:     store,
		tokens:    tokens,
		uploadDir: dir,
	}
}

func (s *testServer) get(t *testing.T, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_GeoJSONNotShadowedByLeakID(t *testing.T) {
	s := newTestServer(t)
	_, err := s.store.CreateLeak(context.Background(), models.LeakInput{Title: "nyc"}, nil)
	require.NoError(t, err)

	rec := s.get(t, "/api/leaks/geojson", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	rec = s.get(t, "/api/leaks/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"nyc"`)
}

func TestRoutes_AdminExportRequiresAdminToken(t *testing.T) {
	s := newTestServer(t)

	adminToken, err := s.tokens.GenerateToken(&models.User{ID: 1, Username: "admin", IsAdmin: true})
	require.NoError(t, err)
	userToken, err := s.tokens.GenerateToken(&models.User{ID: 2, Username: "alice"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		bearer string
		want   int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"bad token", "garbage", http.StatusUnauthorized},
		{"non-admin", userToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.get(t, "/api/admin/leaks/export", tt.bearer)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoutes_Uploads(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, "a.jpg"), []byte("photo bytes"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(s.uploadDir, "nested"), 0755))

	rec := s.get(t, "/uploads/a.jpg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "photo bytes", rec.Body.String())

	tests := []string{"/uploads/", "/uploads/nested/", "/uploads/missing.jpg"}
	for _, path := range tests {
		rec := s.get(t, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "a.jpg", path)
	}
}

func TestRoutes_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.get(t, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "leakwatch_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/healthz"`)

	rec = s.get(t, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, json.Valid(rec.Body.Bytes()))
	assert.Contains(t, rec.Body.String(), "Leakwatch API")
	assert.Contains(t, rec.Body.String(), "/api/leaks/geojson")
}

func TestRoutes_RequestIDPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
