package builtin

import (
	"testing"

	genericoptions "github.com/kiosk404/mahiro-adapter/internal/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInTreeRegistry(t *testing.T) {
	registry := NewInTreeRegistry(genericoptions.NewPluginsOptions())
	assert.Equal(t, 1, registry.Len())
}

func TestResolveUserInfoConfigDefaults(t *testing.T) {
	cfg := ResolveUserInfoConfig(genericoptions.NewPluginsOptions())

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.CacheEnabled)
	assert.True(t, cfg.LogResult)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 5.0, cfg.RequestTimeoutSeconds)
	assert.NotEmpty(t, cfg.APIBaseURL)
}

func TestResolveUserInfoConfigNilOptions(t *testing.T) {
	cfg := ResolveUserInfoConfig(nil)
	require.NotNil(t, cfg)
	assert.True(t, cfg.Enabled)
}

func TestResolveUserInfoConfigOverrides(t *testing.T) {
	opts := genericoptions.NewPluginsOptions()
	opts.Entries["userinfo"] = genericoptions.PluginEntryConfig{
		Config: map[string]interface{}{
			"enable_info":     false,
			"api_base_url":    "http://127.0.0.1:9900",
			"request_timeout": 2.5,
			"log_info_result": false,
			"enable_cache":    false,
			"enable_debug":    true,
		},
	}

	cfg := ResolveUserInfoConfig(opts)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "http://127.0.0.1:9900", cfg.APIBaseURL)
	assert.Equal(t, 2.5, cfg.RequestTimeoutSeconds)
	assert.False(t, cfg.LogResult)
	assert.False(t, cfg.CacheEnabled)
	assert.True(t, cfg.Debug)
}

func TestResolveUserInfoConfigIntegerTimeout(t *testing.T) {
	// YAML decoders hand whole numbers over as int.
	opts := genericoptions.NewPluginsOptions()
	opts.Entries["userinfo"] = genericoptions.PluginEntryConfig{
		Config: map[string]interface{}{
			"request_timeout": 3,
		},
	}

	cfg := ResolveUserInfoConfig(opts)
	assert.Equal(t, 3.0, cfg.RequestTimeoutSeconds)
}

func TestResolveUserInfoConfigIgnoresWrongTypes(t *testing.T) {
	opts := genericoptions.NewPluginsOptions()
	opts.Entries["userinfo"] = genericoptions.PluginEntryConfig{
		Config: map[string]interface{}{
			"enable_info":  "yes",
			"api_base_url": 42,
		},
	}

	cfg := ResolveUserInfoConfig(opts)
	assert.True(t, cfg.Enabled, "mistyped values fall back to defaults")
	assert.NotEqual(t, "42", cfg.APIBaseURL)
}
