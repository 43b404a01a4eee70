package plugin

import (
	"context"
)

// HookEvent identifies a lifecycle event that plugins can subscribe to.
type HookEvent string

const (
	// HookServerStart is fired when the adapter module starts.
	HookServerStart HookEvent = "server_start"

	// HookServerStop is fired during graceful shutdown.
	HookServerStop HookEvent = "server_stop"

	// HookMessageReceived is fired once per inbound chat message, before the
	// host assembles the reply prompt. The data payload is a *MessageEvent.
	// Plugins can prefetch context (e.g. user background lookups) here.
	HookMessageReceived HookEvent = "message_received"
)

// HookHandler is the callback function for lifecycle hooks.
// The data parameter is event-specific; plugins should type-assert as needed.
type HookHandler func(ctx context.Context, data interface{}) error

// HookProvider is an optional plugin interface for plugins that want to
// register hooks declaratively. The framework probes for this interface
// and auto-registers the hooks.
type HookProvider interface {
	Plugin
	// Hooks returns a mapping of events to handlers.
	Hooks() map[HookEvent]HookHandler
}
