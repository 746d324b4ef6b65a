package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 300.0, cfg.Layout.Radius)
	assert.Equal(t, 15*time.Second, cfg.Providers.Timeout.Duration())
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
log:
  level: debug
layout:
  radius: 450
providers:
  timeout: 5s
  doh: "https://doh.internal/resolve"
  enable_nmap: true
`)

	cfg, loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 450.0, cfg.Layout.Radius)

	settings := cfg.ProviderSettings()
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.Equal(t, "https://doh.internal/resolve", settings.DoHEndpoint)
	assert.True(t, settings.EnableNmap)
}

func TestLoadFromPathFillsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, _, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFromPathRejectsBadLevel(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")

	_, _, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config")
}

func TestFindConfigPathEnvOverride(t *testing.T) {
	t.Setenv("GRAPHKIT_CONFIG", "/tmp/custom.yaml")
	assert.Equal(t, "/tmp/custom.yaml", FindConfigPath())
}
