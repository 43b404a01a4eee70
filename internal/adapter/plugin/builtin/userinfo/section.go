package userinfo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/runtime/prompt"
)

// FavorSection renders the sender's favorability record into the prompt
// context patch. It reads from the plugin's cache only: the record was
// resolved by the message hook before prompt assembly began, so rendering
// never blocks on the network.
//
// Priority 1000: plugin range, after all builtin sections, full mode only.
type FavorSection struct {
	plugin *userInfoPlugin
}

func (s *FavorSection) Name() string  { return "user-favorability" }
func (s *FavorSection) Priority() int { return 1000 }

// Enabled returns true when fetching is enabled and a fresh record exists
// for the sender. A missed fetch or an expired record means no injection.
func (s *FavorSection) Enabled(_ context.Context, pc *prompt.PromptContext) bool {
	if !s.plugin.cfg.Enabled {
		return false
	}
	if pc.Sender == nil || pc.Sender.UserID == "" {
		return false
	}
	_, ok := s.plugin.cache.Get(pc.Sender.UserID)
	return ok
}

// Render returns the user background fragment.
func (s *FavorSection) Render(_ context.Context, pc *prompt.PromptContext) (string, error) {
	if pc.Sender == nil || pc.Sender.UserID == "" {
		return "", nil
	}

	record, ok := s.plugin.cache.Get(pc.Sender.UserID)
	if !ok {
		return "", nil
	}

	name := pc.Sender.DisplayName()
	if name == "" {
		name = record.DisplayName
	}

	return fmt.Sprintf(`## User Background

Current user %s (ID %s) has a favorability score of %s with you.
Your attitude toward this user: %s.
Use this background to better understand and respond to the user.`,
		name, record.UserID, formatScore(record.Favorability), record.Attitude), nil
}

// formatScore renders a favorability score without trailing zeros.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var _ prompt.PromptSection = (*FavorSection)(nil)
