package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/config"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/options"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	genericoptions "github.com/kiosk404/mahiro-adapter/internal/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func companionBot(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"favorability": 80, "attitude": "friendly"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testOptions(apiURL string) *options.Options {
	opts := options.NewOptions()
	opts.PluginOptions.Entries["userinfo"] = genericoptions.PluginEntryConfig{
		Config: map[string]interface{}{
			"api_base_url":    apiURL,
			"request_timeout": 2.0,
			"log_info_result": false,
		},
	}
	return opts
}

func newTestModule(t *testing.T, opts *options.Options) *Module {
	t.Helper()
	cfg, err := config.CreateConfigFromOptions(opts)
	require.NoError(t, err)
	m, err := New(cfg)
	require.NoError(t, err)
	return m
}

func TestModuleMessageRoundTrip(t *testing.T) {
	srv, calls := companionBot(t)
	m := newTestModule(t, testOptions(srv.URL))

	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	defer func() { require.NoError(t, m.Stop(ctx)) }()

	event := &plugin.MessageEvent{
		UserID:    "10001",
		Nickname:  "Alice",
		SessionID: "s1",
		PlainText: "hello",
	}

	m.OnMessage(ctx, event)
	require.Equal(t, int64(1), calls.Load())

	patch, err := m.BuildPromptPatch(ctx, event)
	require.NoError(t, err)
	assert.Contains(t, patch, "## User Background")
	assert.Contains(t, patch, "Alice")
	assert.Contains(t, patch, "80")
	assert.Contains(t, patch, "friendly")

	// Second message within the TTL is served from cache.
	m.OnMessage(ctx, event)
	assert.Equal(t, int64(1), calls.Load())
}

func TestModuleEmptyPatchWhenAPIDown(t *testing.T) {
	srv, _ := companionBot(t)
	addr := srv.URL
	srv.Close()

	m := newTestModule(t, testOptions(addr))
	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	defer func() { _ = m.Stop(ctx) }()

	event := &plugin.MessageEvent{UserID: "10001", Nickname: "Alice"}
	m.OnMessage(ctx, event)

	patch, err := m.BuildPromptPatch(ctx, event)
	require.NoError(t, err, "an unreachable API degrades to an empty patch, never an error")
	assert.Empty(t, patch)
}

func TestModulePluginsDisabled(t *testing.T) {
	srv, calls := companionBot(t)
	opts := testOptions(srv.URL)
	opts.PluginOptions.Enabled = false
	m := newTestModule(t, opts)

	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	defer func() { _ = m.Stop(ctx) }()

	event := &plugin.MessageEvent{UserID: "10001", Nickname: "Alice"}
	m.OnMessage(ctx, event)
	assert.Equal(t, int64(0), calls.Load())

	patch, err := m.BuildPromptPatch(ctx, event)
	require.NoError(t, err)
	assert.Empty(t, patch)
}

func TestModuleSlotNone(t *testing.T) {
	srv, calls := companionBot(t)
	opts := testOptions(srv.URL)
	opts.PluginOptions.Slots.UserInfo = "none"
	m := newTestModule(t, opts)

	ctx := context.Background()
	require.NoError(t, m.Start(ctx))
	defer func() { _ = m.Stop(ctx) }()

	event := &plugin.MessageEvent{UserID: "10001", Nickname: "Alice"}
	m.OnMessage(ctx, event)
	assert.Equal(t, int64(0), calls.Load())
	assert.Equal(t, 0, m.Framework().Registry().Len())
}
