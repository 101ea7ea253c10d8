package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	URL     string        `env:"TEST_CFG_URL" envDefault:"http://localhost/reviews.json"`
	Wait    time.Duration `env:"TEST_CFG_WAIT" envDefault:"3s"`
	Brokers []string      `env:"TEST_CFG_LIST" envDefault:"a,b" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost/reviews.json", cfg.URL)
	assert.Equal(t, 3*time.Second, cfg.Wait)
	assert.Equal(t, []string{"a", "b"}, cfg.Brokers)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_WAIT", "250ms")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Wait)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("SF_TEST_CFG_PORT", "7000")
	t.Setenv("TEST_CFG_PORT", "1")

	var cfg testConfig
	require.NoError(t, LoadWithPrefix(&cfg, "SF_"))

	assert.Equal(t, 7000, cfg.Port)
}
