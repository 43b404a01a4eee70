package plugin

import (
	"github.com/kiosk404/mahiro-adapter/internal/adapter/runtime/prompt"
)

// PromptProvider is an optional plugin interface for plugins that want to
// contribute PromptSections to the prompt pipeline.
//
// This is a capability injection channel alongside:
//   - HookProvider (lifecycle hooks)
//   - CLIProvider (CLI commands)
//
// The framework probes for this interface during Init() and auto-registers
// sections into the shared Pipeline.
type PromptProvider interface {
	Plugin

	// PromptSections returns the PromptSections contributed by this plugin.
	PromptSections() []prompt.PromptSection
}

// PromptMutatorProvider is an optional plugin interface for plugins that want
// to contribute PromptMutators to the prompt pipeline.
type PromptMutatorProvider interface {
	Plugin

	// PromptMutators returns the PromptMutators contributed by this plugin.
	PromptMutators() []prompt.PromptMutator
}
