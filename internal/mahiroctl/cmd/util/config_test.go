package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mahiro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOptionsFromFile(t *testing.T) {
	path := writeConfig(t, `
plugins:
  enabled: true
  slots:
    user-info: userinfo
  entries:
    userinfo:
      config:
        api_base_url: http://127.0.0.1:9900
        request_timeout: 2.5
        enable_cache: false
        enable_debug: true
`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	assert.True(t, opts.PluginOptions.Enabled)
	assert.Equal(t, "userinfo", opts.PluginOptions.Slots.UserInfo)

	cfg := builtin.ResolveUserInfoConfig(opts.PluginOptions)
	assert.Equal(t, "http://127.0.0.1:9900", cfg.APIBaseURL)
	assert.Equal(t, 2.5, cfg.RequestTimeoutSeconds)
	assert.False(t, cfg.CacheEnabled)
	assert.True(t, cfg.Debug)
}

func TestLoadOptionsPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
plugins:
  entries:
    userinfo:
      config:
        api_base_url: http://127.0.0.1:9900
`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	cfg := builtin.ResolveUserInfoConfig(opts.PluginOptions)
	assert.Equal(t, "http://127.0.0.1:9900", cfg.APIBaseURL)
	assert.Equal(t, 5.0, cfg.RequestTimeoutSeconds, "unset keys keep their defaults")
	assert.True(t, cfg.CacheEnabled)
}

func TestLoadOptionsMissingExplicitFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadOptionsInvalidSlot(t *testing.T) {
	path := writeConfig(t, `
plugins:
  slots:
    user-info: "user info"
`)

	_, err := LoadOptions(path)
	assert.Error(t, err)
}

func TestLoadOptionsNoDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfig, "")

	opts, err := LoadOptions("")
	require.NoError(t, err, "a missing default config file falls back to defaults")
	assert.True(t, opts.PluginOptions.Enabled)
}
