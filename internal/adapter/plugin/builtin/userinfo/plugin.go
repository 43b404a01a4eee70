package userinfo

import (
	"context"
	"fmt"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/entity"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/internal"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/runtime/prompt"
	"github.com/kiosk404/mahiro-adapter/pkg/logger"
)

const (
	// PluginName is the unique identifier for this plugin.
	PluginName = "userinfo"

	// Kind groups this plugin under the "user-info" slot.
	Kind = "user-info"
)

// PluginDefinition returns the static metadata for this plugin.
func PluginDefinition() plugin.Definition {
	return plugin.Definition{
		ID:          PluginName,
		Name:        "User Info",
		Kind:        Kind,
		Description: "Fetches user favorability from the companion bot API and injects it into the reply prompt",
	}
}

// userInfoPlugin is the runtime instance of the userinfo plugin.
//
// On every inbound message it resolves the sender's favorability record
// (cache first, API on miss) and contributes a prompt section that renders
// the record during prompt assembly. Fetch failures are logged and
// swallowed: the host's reply flow must never be blocked by this plugin.
type userInfoPlugin struct {
	cfg    *entity.UserInfoConfig
	cache  *internal.Cache
	client *internal.Client
}

// Factory is the PluginFactory for userinfo.
func Factory(args plugin.PluginArgs) (plugin.Plugin, error) {
	cfgRaw, ok := args["config"]
	if !ok {
		return nil, fmt.Errorf("userinfo: missing 'config' in plugin args")
	}
	cfg, ok := cfgRaw.(*entity.UserInfoConfig)
	if !ok {
		return nil, fmt.Errorf("userinfo: 'config' must be *entity.UserInfoConfig, got %T", cfgRaw)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("userinfo: invalid config: %w", err)
	}

	return &userInfoPlugin{
		cfg:    cfg,
		cache:  internal.NewCache(internal.DefaultTTL),
		client: internal.NewClient(cfg.APIBaseURL, cfg.RequestTimeout()),
	}, nil
}

// Name implements plugin.Plugin.
func (p *userInfoPlugin) Name() string {
	return PluginName
}

// Init implements plugin.InitPlugin.
// Registers the message hook and the config dump CLI command.
func (p *userInfoPlugin) Init(api plugin.PluginAPI) error {
	api.RegisterHook(plugin.HookMessageReceived, p.onMessageReceived)
	api.RegisterCLI(&configCommand{cfg: p.cfg})
	return nil
}

// Start implements plugin.LifecyclePlugin.
func (p *userInfoPlugin) Start(ctx context.Context) error {
	if !p.cfg.Enabled {
		logger.Info("[UserInfo] user info fetching is disabled")
		return nil
	}
	logger.Info("[UserInfo] started (api=%s, timeout=%s, cache=%v)",
		p.cfg.APIBaseURL, p.cfg.RequestTimeout(), p.cfg.CacheEnabled)
	return nil
}

// Stop implements plugin.LifecyclePlugin.
// Drops all cached records; nothing survives a restart.
func (p *userInfoPlugin) Stop(ctx context.Context) error {
	p.cache.Clear()
	logger.Info("[UserInfo] cache cleared, plugin stopped")
	return nil
}

// --- Hook Handler ---

// onMessageReceived resolves the sender's favorability record before the
// host assembles the reply prompt. Always returns nil: a failed lookup
// must never abort message processing.
func (p *userInfoPlugin) onMessageReceived(ctx context.Context, data interface{}) error {
	if !p.cfg.Enabled {
		return nil
	}

	msg, ok := data.(*plugin.MessageEvent)
	if !ok || msg == nil {
		return nil
	}

	if msg.UserID == "" {
		if p.cfg.Debug {
			logger.Warn("[UserInfo] message has no sender user id, skipping lookup")
		}
		return nil
	}

	displayName := msg.DisplayName()

	if p.cfg.Debug {
		logger.Debug("[UserInfo] sender %s(%s), message: %s",
			displayName, msg.UserID, preview(msg.PlainText, 100))
	}

	// Cache lookup. Disabled caching forces a fresh fetch per message.
	if p.cfg.CacheEnabled {
		if _, ok := p.cache.Get(msg.UserID); ok {
			if p.cfg.Debug {
				logger.Debug("[UserInfo] using cached record for %s(%s)", displayName, msg.UserID)
			}
			return nil
		}
	}

	record, err := p.client.Fetch(ctx, msg.UserID, displayName)
	if err != nil {
		if p.cfg.LogResult {
			logger.Warn("[UserInfo] fetch failed for %s(%s): %v", displayName, msg.UserID, err)
		}
		return nil
	}

	// The section reads the record from the cache at render time, so the
	// fresh record is stored even when reuse across messages is disabled.
	p.cache.Put(msg.UserID, record)

	if p.cfg.LogResult {
		logger.Info("[UserInfo] fetched record for %s(%s): favorability=%s attitude=%s",
			displayName, msg.UserID, formatScore(record.Favorability), record.Attitude)
	}
	return nil
}

// --- PromptProvider Implementation ---

// PromptSections implements plugin.PromptProvider.
// Returns the FavorSection that renders the sender's favorability record
// into the prompt context patch.
//
// Priority 1000 (plugin range): the section only appears in full prompt
// mode, after all builtin sections.
func (p *userInfoPlugin) PromptSections() []prompt.PromptSection {
	return []prompt.PromptSection{
		&FavorSection{plugin: p},
	}
}

// Cache returns the plugin's record cache, for diagnostics.
func (p *userInfoPlugin) Cache() *internal.Cache {
	return p.cache
}

// --- Helpers ---

func preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Compile-time interface checks.
var (
	_ plugin.Plugin          = (*userInfoPlugin)(nil)
	_ plugin.InitPlugin      = (*userInfoPlugin)(nil)
	_ plugin.LifecyclePlugin = (*userInfoPlugin)(nil)
	_ plugin.PromptProvider  = (*userInfoPlugin)(nil)
)
