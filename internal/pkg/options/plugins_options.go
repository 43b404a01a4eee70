package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// PluginsOptions holds the top-level configuration for the plugin system.
// Aligned with the plugin system configuration file.
type PluginsOptions struct {
	// Enabled controls whether the plugin system is enabled. (default: true)
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Slots controls which plugin occupies each exclusive slot.
	// For example {"user-info": "userinfo"}.
	// Special value "none" disables all plugins of the kind.
	Slots PluginSlotsConfig `json:"slots" mapstructure:"slots"`
	// Entries holds per-plugin configuration.
	// Key is the plugin ID (e.g. "userinfo").
	Entries map[string]PluginEntryConfig `json:"entries" mapstructure:"entries"`
}

// PluginSlotsConfig maps slot kind -> desired plugin ID.
// Aligned with the plugin system configuration file.
type PluginSlotsConfig struct {
	UserInfo string `json:"user-info" mapstructure:"user-info"`
}

// PluginEntryConfig holds per-plugin configuration.
// Aligned with the plugin system configuration file.
type PluginEntryConfig struct {
	Enabled *bool                  `json:"enabled,omitempty" mapstructure:"enabled"`
	Config  map[string]interface{} `json:"config,omitempty" mapstructure:"config"`
}

// NewPluginsOptions returns a new instance of PluginsOptions.
func NewPluginsOptions() *PluginsOptions {
	return &PluginsOptions{
		Enabled: true,
		Slots: PluginSlotsConfig{
			UserInfo: "userinfo",
		},
		Entries: make(map[string]PluginEntryConfig),
	}
}

// Validate checks PluginsOptions fields.
func (o *PluginsOptions) Validate() []error {
	var errs []error

	// Valid plugin IDs are DNS-compatible.
	if o.Slots.UserInfo != "" && o.Slots.UserInfo != "none" {
		for _, c := range o.Slots.UserInfo {
			if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_') {
				errs = append(errs, fmt.Errorf("invalid character %q in user-info slot name", c))
				break
			}
		}
	}

	return errs
}

// AddFlags adds flags for the plugins options.
// Only global-level switches are exposed as CLI flags.
// Per-plugin configuration is done via the configuration file.
func (o *PluginsOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "plugins.enabled", o.Enabled, "Enable the plugin system.")
	fs.StringVar(&o.Slots.UserInfo, "plugins.slots.user-info", o.Slots.UserInfo, "Plugin occupying the user-info slot, or \"none\".")
}
