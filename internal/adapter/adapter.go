package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/config"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/runtime/prompt"
	"github.com/kiosk404/mahiro-adapter/pkg/logger"
	"github.com/spf13/cobra"
)

// Module is the host-facing composition of the adapter: plugin framework
// plus prompt pipeline, wired from a Config.
//
// The host integration is two calls per inbound message:
//
//	m.OnMessage(ctx, event)                      // before prompt assembly
//	patch, _ := m.BuildPromptPatch(ctx, event)   // during prompt assembly
//
// Both are bounded by the plugin's request timeout and never fail the
// host's message processing.
type Module struct {
	cfg       *config.Config
	framework *plugin.Framework
	pipeline  *prompt.Pipeline
}

// New wires the adapter module from the given configuration.
func New(cfg *config.Config) (*Module, error) {
	pluginCfg := &plugin.Config{
		SlotConfig: plugin.SlotConfig{
			"user-info": cfg.PluginOptions.Slots.UserInfo,
		},
	}
	framework := pluginCfg.Complete().New()

	pipeline := prompt.NewPipeline()
	framework.SetPromptPipeline(pipeline)

	if cfg.PluginOptions.Enabled {
		inTreeRegistry := builtin.NewInTreeRegistry(cfg.PluginOptions)
		if err := inTreeRegistry.ApplyTo(framework); err != nil {
			return nil, fmt.Errorf("failed to register in-tree plugins: %w", err)
		}
		if err := framework.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize plugin framework: %w", err)
		}
		logger.Info("[Adapter] plugin framework initialized (%d plugins loaded)",
			framework.Registry().Len())
	} else {
		logger.Info("[Adapter] plugin framework disabled (plugins.enabled=false), skipping plugin loading")
	}

	return &Module{
		cfg:       cfg,
		framework: framework,
		pipeline:  pipeline,
	}, nil
}

// Start starts the plugin lifecycle and fires the server_start hook.
func (m *Module) Start(ctx context.Context) error {
	return m.framework.Start(ctx)
}

// Stop fires the server_stop hook and stops plugins in reverse order.
func (m *Module) Stop(ctx context.Context) error {
	return m.framework.Stop(ctx)
}

// OnMessage delivers an inbound message to all message_received hooks.
// Hook errors are logged and suppressed: the host's message handling
// must never be aborted by a plugin.
func (m *Module) OnMessage(ctx context.Context, msg *plugin.MessageEvent) {
	if err := plugin.FireHooks(ctx, m.framework.Registry(), plugin.HookMessageReceived, msg); err != nil {
		logger.Warn("[Adapter] message_received hook error: %v", err)
	}
}

// BuildPromptPatch assembles the prompt context patch for the given
// message. The host prepends the patch to its own prompt; an empty patch
// means no plugin had anything to contribute.
func (m *Module) BuildPromptPatch(ctx context.Context, msg *plugin.MessageEvent) (string, error) {
	pc := &prompt.PromptContext{
		Sender: &prompt.SenderInfo{
			UserID:   msg.UserID,
			Nickname: msg.Nickname,
			CardName: msg.CardName,
		},
		SessionID: msg.SessionID,
		Mode:      prompt.PromptModeFull,
		Now:       time.Now(),
	}
	return m.pipeline.Assemble(ctx, pc)
}

// RegisterCLICommands adds plugin-provided CLI subcommands to the given
// parent command.
func (m *Module) RegisterCLICommands(parent *cobra.Command) {
	m.framework.Registry().RegisterCLICommands(parent)
}

// Framework returns the underlying plugin framework, for diagnostics.
func (m *Module) Framework() *plugin.Framework {
	return m.framework
}
