package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:5050", cfg.Server.BaseURL)
	assert.Equal(t, 20, cfg.UI.LogLimit)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shopnerd.yaml")
	yaml := `
server:
  base_url: http://store.internal:8080
ui:
  log_limit: 50
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	old, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://store.internal:8080", cfg.Server.BaseURL)
	assert.Equal(t, 50, cfg.UI.LogLimit)
	// Unspecified fields keep their defaults.
	assert.Equal(t, "₹", cfg.UI.CurrencySymbol)
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("SHOPNERD_BASE_URL", "http://env-host:9999")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env-host:9999", cfg.Server.BaseURL)
}

func TestRequestTimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Timeout = "not-a-duration"
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())

	cfg.Server.Timeout = "30s"
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
}
