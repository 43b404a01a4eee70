package plugin

import (
	"context"
	"fmt"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/runtime/prompt"
	"github.com/kiosk404/mahiro-adapter/pkg/logger"
)

// Framework is the core plugin framework that manages plugin lifecycle.
// It orchestrates: plugin loading → slot resolution → Init → Start → Stop.
type Framework struct {
	registry       *Registry
	slotConfig     SlotConfig
	factories      []registeredFactory
	promptPipeline *prompt.Pipeline
}

// registeredFactory pairs a PluginFactory with its Definition and args.
type registeredFactory struct {
	definition Definition
	factory    PluginFactory
	args       PluginArgs
}

// Config holds the configuration for creating a Framework.
// Follows the Config → Complete() → New() pattern.
type Config struct {
	// SlotConfig controls which plugins are active per slot kind.
	SlotConfig SlotConfig
}

// CompletedConfig is the validated and completed framework configuration.
type CompletedConfig struct {
	*Config
}

// Complete validates and fills in defaults for the framework configuration.
func (c *Config) Complete() CompletedConfig {
	if c.SlotConfig == nil {
		c.SlotConfig = make(SlotConfig)
	}
	return CompletedConfig{c}
}

// New creates a new Framework from the completed configuration.
func (c CompletedConfig) New() *Framework {
	return &Framework{
		registry:   NewRegistry(),
		slotConfig: c.SlotConfig,
	}
}

// --- Factory Registration (pre-init phase) ---

// RegisterFactory registers a PluginFactory with its Definition and optional
// args. Factories are registered before Init(); the Framework instantiates
// plugins from them during Init(), in registration order.
func (f *Framework) RegisterFactory(def Definition, factory PluginFactory, args PluginArgs) error {
	for _, entry := range f.factories {
		if entry.definition.ID == def.ID {
			return fmt.Errorf("plugin factory %q is already registered", def.ID)
		}
	}
	f.factories = append(f.factories, registeredFactory{
		definition: def,
		factory:    factory,
		args:       args,
	})
	return nil
}

// --- Lifecycle ---

// Init instantiates all registered factories, resolves slots, and calls
// Init/Register on each plugin:
//  1. Iterate factories in registration order
//  2. Resolve slot constraints
//  3. Instantiate plugin via factory
//  4. Call InitPlugin.Init() if implemented (register Hook/CLI capabilities)
//  5. Auto-probe for HookProvider/CLIProvider/PromptProvider interfaces
func (f *Framework) Init() error {
	logger.Info("[Plugin] initializing framework with %d plugin factories", len(f.factories))

	activeSlots := make(map[string]string)

	for _, entry := range f.factories {
		def := entry.definition

		// Step 1: Slot resolution.
		if err := ResolveSlot(def, activeSlots, f.slotConfig); err != nil {
			logger.Info("[Plugin] skipping plugin %q: %v", def.ID, err)
			continue
		}

		// Step 2: Instantiate via factory.
		p, err := entry.factory(entry.args)
		if err != nil {
			return fmt.Errorf("failed to create plugin %q: %w", def.ID, err)
		}

		// Step 3: Register in registry.
		if err := f.registry.registerPlugin(p.Name(), def, p); err != nil {
			return fmt.Errorf("failed to register plugin %q: %w", def.ID, err)
		}

		// Mark slot as occupied.
		if def.Kind != "" && def.Kind != "general" {
			activeSlots[def.Kind] = def.ID
		}

		// Step 4: Call InitPlugin.Init() if implemented.
		if initP, ok := p.(InitPlugin); ok {
			api := newPluginAPI(f.registry, p.Name())
			if err := initP.Init(api); err != nil {
				return fmt.Errorf("plugin %q Init() failed: %w", def.ID, err)
			}
		}

		// Step 5: Auto-probe interfaces and register capabilities.
		f.probeAndRegister(p)

		logger.Info("[Plugin] loaded plugin %q (kind=%s)", def.ID, def.Kind)
	}

	logger.Info("[Plugin] framework initialized: %d plugins", f.registry.Len())
	return nil
}

// probeAndRegister checks if a plugin implements optional provider interfaces
// and auto-registers their capabilities.
func (f *Framework) probeAndRegister(p Plugin) {
	name := p.Name()

	// Probe HookProvider.
	if hp, ok := p.(HookProvider); ok {
		for event, handler := range hp.Hooks() {
			f.registry.addHook(name, event, handler)
		}
	}

	// Probe CLIProvider.
	if cp, ok := p.(CLIProvider); ok {
		for _, registrar := range cp.CLIRegistrars() {
			f.registry.addCLI(name, registrar)
		}
	}

	// Probe PromptProvider - register sections/mutators into the shared pipeline.
	if f.promptPipeline != nil {
		if pp, ok := p.(PromptProvider); ok {
			for _, section := range pp.PromptSections() {
				f.promptPipeline.RegisterSection(section)
			}
		}
		if mp, ok := p.(PromptMutatorProvider); ok {
			for _, mutator := range mp.PromptMutators() {
				f.promptPipeline.RegisterMutator(mutator)
			}
		}
	}
}

// Start starts all lifecycle plugins and fires the ServerStart hook.
func (f *Framework) Start(ctx context.Context) error {
	for _, name := range f.registry.PluginNames() {
		p, _ := f.registry.GetPlugin(name)
		if lp, ok := p.(LifecyclePlugin); ok {
			logger.Info("[Plugin] starting lifecycle plugin %q", name)
			if err := lp.Start(ctx); err != nil {
				return fmt.Errorf("plugin %q Start() failed: %w", name, err)
			}
		}
	}

	// Fire ServerStart hook.
	if err := FireHooks(ctx, f.registry, HookServerStart, nil); err != nil {
		logger.Warn("[Plugin] server_start hook error: %v", err)
	}

	return nil
}

// Stop stops all lifecycle plugins (reverse order) and fires the
// ServerStop hook.
func (f *Framework) Stop(ctx context.Context) error {
	// Fire ServerStop hook.
	if err := FireHooks(ctx, f.registry, HookServerStop, nil); err != nil {
		logger.Warn("[Plugin] server_stop hook error: %v", err)
	}

	names := f.registry.PluginNames()
	for i := len(names) - 1; i >= 0; i-- {
		p, _ := f.registry.GetPlugin(names[i])
		if lp, ok := p.(LifecyclePlugin); ok {
			logger.Info("[Plugin] stopping lifecycle plugin %q", names[i])
			if err := lp.Stop(ctx); err != nil {
				logger.Warn("[Plugin] plugin %q Stop() error: %v", names[i], err)
			}
		}
	}

	return nil
}

// --- Accessors ---

// Registry returns the underlying plugin registry.
// Used by the adapter module to query registered hooks and CLI commands.
func (f *Framework) Registry() *Registry {
	return f.registry
}

// SetPromptPipeline attaches a Pipeline to the framework.
// Plugin-contributed sections/mutators are registered into this pipeline.
// Must be called before Init() for plugins to contribute sections.
func (f *Framework) SetPromptPipeline(pipeline *prompt.Pipeline) {
	f.promptPipeline = pipeline
}

// PromptPipeline returns the attached Pipeline.
func (f *Framework) PromptPipeline() *prompt.Pipeline {
	return f.promptPipeline
}
