package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://zzzmini.github.io/js/shoesReview.json", cfg.RemoteURL)
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 3*time.Second, cfg.RemoteRenderWait)
	assert.Zero(t, cfg.RemoteMaxRetries)
	assert.Equal(t, LocalStoreRedis, cfg.LocalStore)
	assert.Equal(t, ProductSourceMemory, cfg.ProductSource)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidRemoteURL(t *testing.T) {
	t.Setenv("REMOTE_URL", "ftp://example.com/reviews.json")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_URL")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("REMOTE_TIMEOUT", "soon")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load storefront config")
}

func TestLoad_RenderWaitMustBePositive(t *testing.T) {
	t.Setenv("REMOTE_RENDER_WAIT", "0s")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMOTE_RENDER_WAIT must be positive")
}

func TestLoad_UnknownLocalStore(t *testing.T) {
	t.Setenv("LOCAL_STORE", "sqlite")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCAL_STORE must be")
}

func TestLoad_UnknownProductSource(t *testing.T) {
	t.Setenv("PRODUCT_SOURCE", "csv")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRODUCT_SOURCE must be")
}

func TestLoad_MemoryBackends(t *testing.T) {
	t.Setenv("LOCAL_STORE", "memory")
	t.Setenv("CATALOG_FILE", "/etc/storefront/catalog.yaml")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, LocalStoreMemory, cfg.LocalStore)
	assert.Equal(t, "/etc/storefront/catalog.yaml", cfg.CatalogFile)
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
}

func TestLoad_SubmitRateLimit(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.SubmitRateLimit, 1e-9)
	assert.Equal(t, 5, cfg.SubmitRateBurst)

	t.Setenv("SUBMIT_RATE_LIMIT", "-1")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUBMIT_RATE_LIMIT")

	t.Setenv("SUBMIT_RATE_LIMIT", "1")
	t.Setenv("SUBMIT_RATE_BURST", "0")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUBMIT_RATE_BURST")
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/99")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}
