package plugin

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

// Registry is the central plugin registry that holds all loaded plugins
// and their registered capabilities (hooks, CLI commands).
//
// Thread-safe: all mutations are guarded by a mutex.
type Registry struct {
	mu sync.RWMutex

	// plugins holds all loaded plugins, keyed by plugin name.
	plugins map[string]Plugin

	// pluginOrder preserves the registration order of plugins.
	pluginOrder []string

	// definitions holds static metadata for each plugin.
	definitions map[string]Definition

	// hooks maps event → ordered list of handlers.
	hooks map[HookEvent][]hookEntry

	// cliRegistrars holds all CLI registrars in registration order.
	cliRegistrars []cliEntry
}

// hookEntry tracks which plugin registered a hook handler.
type hookEntry struct {
	pluginName string
	handler    HookHandler
}

// cliEntry tracks which plugin registered a CLI registrar.
type cliEntry struct {
	pluginName string
	registrar  CLIRegistrar
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins:     make(map[string]Plugin),
		definitions: make(map[string]Definition),
		hooks:       make(map[HookEvent][]hookEntry),
	}
}

// --- Registration methods (called by pluginAPIImpl) ---

func (r *Registry) addHook(pluginName string, event HookEvent, handler HookHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks[event] = append(r.hooks[event], hookEntry{
		pluginName: pluginName,
		handler:    handler,
	})
}

func (r *Registry) addCLI(pluginName string, registrar CLIRegistrar) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cliRegistrars = append(r.cliRegistrars, cliEntry{
		pluginName: pluginName,
		registrar:  registrar,
	})
}

// --- Query methods ---

// GetPlugin returns a loaded plugin by name.
func (r *Registry) GetPlugin(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// GetHooks returns all handlers registered for the given event.
func (r *Registry) GetHooks(event HookEvent) []HookHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.hooks[event]
	handlers := make([]HookHandler, 0, len(entries))
	for _, e := range entries {
		handlers = append(handlers, e.handler)
	}
	return handlers
}

// RegisterCLICommands registers all plugin-provided CLI subcommands
// into the given cobra parent command.
func (r *Registry) RegisterCLICommands(parent *cobra.Command) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.cliRegistrars {
		entry.registrar.RegisterCommands(parent)
	}
}

// PluginNames returns the names of all loaded plugins in registration order.
func (r *Registry) PluginNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, len(r.pluginOrder))
	copy(result, r.pluginOrder)
	return result
}

// Len returns the number of loaded plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// --- Internal registration ---

// registerPlugin adds a plugin to the registry. Called by Framework.
func (r *Registry) registerPlugin(name string, def Definition, p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; exists {
		return fmt.Errorf("plugin %q is already registered", name)
	}

	r.plugins[name] = p
	r.definitions[name] = def
	r.pluginOrder = append(r.pluginOrder, name)
	return nil
}
