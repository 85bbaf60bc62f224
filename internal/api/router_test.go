package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sentinai-labs/server/internal/config"
	"github.com/sentinai-labs/server/internal/events"
)

// testRouter builds the router against a pool that is never connected;
// the routes exercised here reject before any database access.
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		Auth:        config.AuthConfig{JWTSecret: "secret", JWTExpiry: time.Hour},
		GitHub:      config.GitHubConfig{APIBaseURL: "http://127.0.0.1:0", Timeout: time.Second},
		Environment: "test",
	}

	pool, err := pgxpool.New(context.Background(), "postgres://127.0.0.1:5432/unused")
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	bus := events.NewBus(events.DefaultCapacity)
	t.Cleanup(bus.Close)

	return NewRouter(cfg, zerolog.Nop(), pool, bus, "test")
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterGuardedRoutesRejectWithoutToken(t *testing.T) {
	router := testRouter(t)

	paths := []string{
		"/api/v1/auth/me",
		"/api/v1/projects",
		"/api/v1/projects/00000000-0000-0000-0000-000000000001",
		"/api/v1/projects/00000000-0000-0000-0000-000000000001/pipelines",
		"/api/v1/projects/00000000-0000-0000-0000-000000000001/security",
		"/api/v1/projects/00000000-0000-0000-0000-000000000001/events",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"), path)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestRouterSetsRequestID(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
}
