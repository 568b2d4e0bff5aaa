package router_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vinebar-venice/app/observability/metrics"
	"github.com/FACorreiaa/go-vinebar-venice/config"
	"github.com/FACorreiaa/go-vinebar-venice/internal/container"
	"github.com/FACorreiaa/go-vinebar-venice/internal/router"
)

func newConfig(t *testing.T) *router.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.Driver = config.DriverMemory
	require.NoError(t, cfg.Validate())

	c, err := container.NewContainer(context.Background(), cfg, metrics.Noop(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c.RouterConfig()
}

func TestSetupRouter_Routes(t *testing.T) {
	r := router.SetupRouter(newConfig(t))

	var got []string
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+route)
		return nil
	})
	require.NoError(t, err)

	for _, want := range []string{
		"GET /ping",
		"GET /api/v1/categories/",
		"GET /api/v1/categories/{categoryID}/venues",
		"GET /api/v1/categories/{categoryID}/pick",
		"GET /api/v1/venues/",
		"GET /api/v1/venues/{venueID}",
		"GET /api/v1/venues/{venueID}/share",
		"GET /api/v1/venues/{venueID}/route",
		"GET /api/v1/quiz/",
		"POST /api/v1/quiz/classify",
		"POST /api/v1/quiz/result",
		"GET /api/v1/saved/",
		"GET /api/v1/saved/{venueID}",
		"PUT /api/v1/saved/{venueID}",
		"DELETE /api/v1/saved/{venueID}",
		"POST /api/v1/saved/{venueID}/toggle",
		"POST /api/v1/map/focus",
		"POST /api/v1/map/ready",
		"POST /api/v1/map/enter",
		"POST /api/v1/map/leave",
		"GET /api/v1/map/region",
		"PUT /api/v1/map/region",
		"POST /api/v1/map/select/{venueID}",
		"DELETE /api/v1/map/select",
	} {
		assert.Contains(t, got, want)
	}
}

func TestNew_StripsTrailingSlash(t *testing.T) {
	h := router.New(newConfig(t))

	for _, path := range []string{"/api/v1/categories", "/api/v1/categories/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), path)
	}
}

func TestNew_CORSPreflight(t *testing.T) {
	h := router.New(newConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/saved/romantic1", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:8081", rec.Header().Get("Access-Control-Allow-Origin"))
}
