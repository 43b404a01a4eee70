package builtin

import (
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo"
	userinfoentity "github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/entity"
	genericoptions "github.com/kiosk404/mahiro-adapter/internal/pkg/options"
)

// NewInTreeRegistry creates a new in-tree plugin registry with the default
// plugins. Configuration is sourced from PluginsOptions
// (plugins.entries.<plugin-id>.config); each plugin receives its config via
// PluginArgs["config"].
//
// The default plugins are:
//   - userinfo: favorability lookup against the companion bot API
func NewInTreeRegistry(opts *genericoptions.PluginsOptions) *plugin.InTreeRegistry {
	registry := plugin.NewInTreeRegistry()

	registry.Register(
		userinfo.PluginDefinition(),
		userinfo.Factory,
		plugin.PluginArgs{
			"config": ResolveUserInfoConfig(opts),
		})

	return registry
}

// ResolveUserInfoConfig resolves the userinfo plugin config from the given
// options, applying user overrides from plugins.entries.userinfo.config
// over the defaults.
func ResolveUserInfoConfig(opts *genericoptions.PluginsOptions) *userinfoentity.UserInfoConfig {
	cfg := userinfoentity.DefaultUserInfoConfig()
	if opts == nil {
		return cfg
	}
	entry, ok := opts.Entries[userinfo.PluginName]
	if !ok || entry.Config == nil {
		return cfg
	}

	if v, ok := entry.Config["enable_info"]; ok {
		if b, ok := v.(bool); ok {
			cfg.Enabled = b
		}
	}
	if v, ok := entry.Config["api_base_url"]; ok {
		if s, ok := v.(string); ok {
			cfg.APIBaseURL = s
		}
	}
	if v, ok := entry.Config["request_timeout"]; ok {
		switch t := v.(type) {
		case float64:
			cfg.RequestTimeoutSeconds = t
		case int:
			cfg.RequestTimeoutSeconds = float64(t)
		}
	}
	if v, ok := entry.Config["log_info_result"]; ok {
		if b, ok := v.(bool); ok {
			cfg.LogResult = b
		}
	}
	if v, ok := entry.Config["enable_cache"]; ok {
		if b, ok := v.(bool); ok {
			cfg.CacheEnabled = b
		}
	}
	if v, ok := entry.Config["enable_debug"]; ok {
		if b, ok := v.(bool); ok {
			cfg.Debug = b
		}
	}
	return cfg
}
