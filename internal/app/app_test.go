package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, remoteURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Environment:      "test",
		LogLevel:         "error",
		HTTPPort:         0,
		RemoteURL:        remoteURL,
		RemoteTimeout:    5 * time.Second,
		RemoteRenderWait: 2 * time.Second,
		LocalStore:       config.LocalStoreMemory,
		ProductSource:    config.ProductSourceMemory,
		OTELSampleRate:   1,
	}
}

func remoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"reviewId":1,"productId":1,"point":4,"title":"Soft","review":"Comfortable"}]`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewApp_MemoryBackends(t *testing.T) {
	srv := remoteServer(t)
	a, err := NewApp(testConfig(t, srv.URL), newTestLogger())
	require.NoError(t, err)
	t.Cleanup(a.closeResources)

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/1/reviews", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"ready"`)
	assert.Contains(t, rec.Body.String(), "Comfortable")
}

func TestNewApp_RedisStore(t *testing.T) {
	srv := remoteServer(t)
	mr := miniredis.RunT(t)

	cfg := testConfig(t, srv.URL)
	cfg.LocalStore = config.LocalStoreRedis
	cfg.RedisAddr = mr.Addr()

	a, err := NewApp(cfg, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(a.closeResources)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/1/reviews",
		strings.NewReader(`{"title":"Great","content":"Comfy","point":5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	raw, err := mr.Get(repository.LocalReviewsKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"title":"Great"`)

	ready := httptest.NewRecorder()
	a.Handler().ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), "redis")
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t, "http://127.0.0.1:1/reviews.json")
	cfg.LocalStore = config.LocalStoreRedis
	cfg.RedisAddr = addr

	_, err := NewApp(cfg, newTestLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis")
}

func TestNewApp_MissingCatalog(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/reviews.json")
	cfg.CatalogFile = "/nonexistent/catalog.yaml"

	_, err := NewApp(cfg, newTestLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, err := NewApp(testConfig(t, "http://127.0.0.1:1/reviews.json"), newTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
