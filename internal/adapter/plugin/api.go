package plugin

import (
	"context"
)

// PluginAPI is the registration interface given to plugins during Init().
// Through this API, plugins register their capabilities: Hook, CLI.
type PluginAPI interface {
	// RegisterHook registers a lifecycle event hook.
	RegisterHook(event HookEvent, handler HookHandler)

	// RegisterCLI registers a CLI subcommand registrar.
	RegisterCLI(registrar CLIRegistrar)
}

// pluginAPIImpl implements PluginAPI, collecting registrations into the
// Registry. Framework internals implement the public interfaces, keeping
// the implementation private.
type pluginAPIImpl struct {
	registry   *Registry
	pluginName string
}

var _ PluginAPI = (*pluginAPIImpl)(nil)

func newPluginAPI(registry *Registry, pluginName string) *pluginAPIImpl {
	return &pluginAPIImpl{
		registry:   registry,
		pluginName: pluginName,
	}
}

func (a *pluginAPIImpl) RegisterHook(event HookEvent, handler HookHandler) {
	a.registry.addHook(a.pluginName, event, handler)
}

func (a *pluginAPIImpl) RegisterCLI(registrar CLIRegistrar) {
	a.registry.addCLI(a.pluginName, registrar)
}

// FireHooks fires all registered hooks for the given event.
// Hooks are called in registration order. If any hook returns an error,
// subsequent hooks are still called but the first error is returned.
func FireHooks(ctx context.Context, registry *Registry, event HookEvent, data interface{}) error {
	handlers := registry.GetHooks(event)
	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
