package userinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/entity"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/internal"
	"github.com/kiosk404/mahiro-adapter/internal/adapter/runtime/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAPI starts a companion bot stand-in that counts requests.
func testAPI(t *testing.T, body string, status int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(apiURL string) *entity.UserInfoConfig {
	cfg := entity.DefaultUserInfoConfig()
	cfg.APIBaseURL = apiURL
	cfg.RequestTimeoutSeconds = 2
	cfg.LogResult = false
	return cfg
}

func newTestPlugin(t *testing.T, cfg *entity.UserInfoConfig) *userInfoPlugin {
	t.Helper()
	p, err := Factory(plugin.PluginArgs{"config": cfg})
	require.NoError(t, err)
	return p.(*userInfoPlugin)
}

func aliceEvent() *plugin.MessageEvent {
	return &plugin.MessageEvent{
		UserID:    "10001",
		Nickname:  "Alice",
		SessionID: "s1",
		PlainText: "hello",
	}
}

func promptCtxFor(msg *plugin.MessageEvent) *prompt.PromptContext {
	return &prompt.PromptContext{
		Sender: &prompt.SenderInfo{
			UserID:   msg.UserID,
			Nickname: msg.Nickname,
			CardName: msg.CardName,
		},
		SessionID: msg.SessionID,
		Mode:      prompt.PromptModeFull,
		Now:       time.Now(),
	}
}

func TestFactoryRejectsBadArgs(t *testing.T) {
	_, err := Factory(plugin.PluginArgs{})
	assert.Error(t, err)

	_, err = Factory(plugin.PluginArgs{"config": "not a config"})
	assert.Error(t, err)

	bad := entity.DefaultUserInfoConfig()
	bad.APIBaseURL = ""
	_, err = Factory(plugin.PluginArgs{"config": bad})
	assert.Error(t, err)
}

func TestFetchAndInject(t *testing.T) {
	srv, calls := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	p := newTestPlugin(t, testConfig(srv.URL))

	msg := aliceEvent()
	require.NoError(t, p.onMessageReceived(context.Background(), msg))
	assert.Equal(t, int64(1), calls.Load())

	sections := p.PromptSections()
	require.Len(t, sections, 1)

	pc := promptCtxFor(msg)
	require.True(t, sections[0].Enabled(context.Background(), pc))

	text, err := sections[0].Render(context.Background(), pc)
	require.NoError(t, err)
	assert.Contains(t, text, "## User Background")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "10001")
	assert.Contains(t, text, "80")
	assert.Contains(t, text, "friendly")
}

func TestDisabledPluginSkipsFetch(t *testing.T) {
	srv, calls := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	cfg := testConfig(srv.URL)
	cfg.Enabled = false
	p := newTestPlugin(t, cfg)

	msg := aliceEvent()
	require.NoError(t, p.onMessageReceived(context.Background(), msg))
	assert.Equal(t, int64(0), calls.Load())

	pc := promptCtxFor(msg)
	assert.False(t, p.PromptSections()[0].Enabled(context.Background(), pc))
}

func TestEmptyUserIDSkipsFetch(t *testing.T) {
	srv, calls := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	p := newTestPlugin(t, testConfig(srv.URL))

	msg := aliceEvent()
	msg.UserID = ""
	require.NoError(t, p.onMessageReceived(context.Background(), msg))
	assert.Equal(t, int64(0), calls.Load())
}

func TestSecondMessageServedFromCache(t *testing.T) {
	srv, calls := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	p := newTestPlugin(t, testConfig(srv.URL))

	msg := aliceEvent()
	require.NoError(t, p.onMessageReceived(context.Background(), msg))
	require.NoError(t, p.onMessageReceived(context.Background(), msg))

	assert.Equal(t, int64(1), calls.Load(), "second message within the TTL reuses the cached record")
}

func TestCacheDisabledRefetchesEveryMessage(t *testing.T) {
	srv, calls := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	cfg := testConfig(srv.URL)
	cfg.CacheEnabled = false
	p := newTestPlugin(t, cfg)

	msg := aliceEvent()
	require.NoError(t, p.onMessageReceived(context.Background(), msg))
	require.NoError(t, p.onMessageReceived(context.Background(), msg))
	assert.Equal(t, int64(2), calls.Load())

	// The fresh record is still stored for the section to render.
	pc := promptCtxFor(msg)
	assert.True(t, p.PromptSections()[0].Enabled(context.Background(), pc))
}

func TestExpiredRecordRefetched(t *testing.T) {
	srv, calls := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	p := newTestPlugin(t, testConfig(srv.URL))

	cur := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.cache = internal.NewCacheWithClock(internal.DefaultTTL, func() time.Time { return cur })

	msg := aliceEvent()
	require.NoError(t, p.onMessageReceived(context.Background(), msg))

	cur = cur.Add(internal.DefaultTTL + time.Second)
	require.NoError(t, p.onMessageReceived(context.Background(), msg))

	assert.Equal(t, int64(2), calls.Load(), "an expired record forces a refetch")
}

func TestFetchFailureMeansNoInjection(t *testing.T) {
	srv, _ := testAPI(t, "", http.StatusInternalServerError)
	p := newTestPlugin(t, testConfig(srv.URL))

	msg := aliceEvent()
	require.NoError(t, p.onMessageReceived(context.Background(), msg),
		"a failed fetch must not abort message processing")

	pc := promptCtxFor(msg)
	assert.False(t, p.PromptSections()[0].Enabled(context.Background(), pc))
	assert.Equal(t, 0, p.Cache().Len(), "failures are never cached")
}

func TestSectionPrefersCardName(t *testing.T) {
	srv, _ := testAPI(t, `{"favorability": 42.5, "attitude": "neutral"}`, http.StatusOK)
	p := newTestPlugin(t, testConfig(srv.URL))

	msg := aliceEvent()
	msg.CardName = "Captain"
	require.NoError(t, p.onMessageReceived(context.Background(), msg))

	pc := promptCtxFor(msg)
	text, err := p.PromptSections()[0].Render(context.Background(), pc)
	require.NoError(t, err)
	assert.Contains(t, text, "Captain")
	assert.NotContains(t, text, "Alice")
	assert.Contains(t, text, "42.5")
}

func TestStopClearsCache(t *testing.T) {
	srv, _ := testAPI(t, `{"favorability": 80, "attitude": "friendly"}`, http.StatusOK)
	p := newTestPlugin(t, testConfig(srv.URL))

	require.NoError(t, p.onMessageReceived(context.Background(), aliceEvent()))
	require.Equal(t, 1, p.Cache().Len())

	require.NoError(t, p.Stop(context.Background()))
	assert.Equal(t, 0, p.Cache().Len())
}
