package prompt

import (
	"context"
	"time"
)

// SenderInfo carries the identity of the user whose message triggered the
// current prompt assembly. It mirrors the host's message envelope without
// importing the plugin package (sections must not depend on hook plumbing).
type SenderInfo struct {
	// UserID is the platform-level user identifier (e.g. a QQ number).
	UserID string

	// Nickname is the user's account nickname.
	Nickname string

	// CardName is the per-group display name, when the platform has one.
	CardName string
}

// DisplayName returns the name a reply should address the user by:
// the group card name when set, otherwise the nickname.
func (s *SenderInfo) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.CardName != "" {
		return s.CardName
	}
	return s.Nickname
}

// PromptMode controls the section assembly granularity.
//
//   - Full: all sections included (normal reply flow)
//   - Minimal: only core sections (lightweight tasks)
//   - None: bare prompt, no contributed sections
type PromptMode string

const (
	PromptModeFull    PromptMode = "full"
	PromptModeMinimal PromptMode = "minimal"
	PromptModeNone    PromptMode = "none"
)

// PromptSection is the fundamental interface for prompt contribution.
//
// Each Section renders one logical segment of the prompt context patch.
// Sections are assembled in Priority order by the Pipeline.
type PromptSection interface {
	// Name returns the unique identifier of this section (for debug/logging).
	Name() string

	// Priority determines assembly order (lower = earlier in the patch).
	// Builtin sections use 100-999; plugin sections should use 1000+.
	Priority() int

	// Enabled returns whether this section should appear in the final patch.
	// Sections decide dynamically based on the PromptContext.
	Enabled(ctx context.Context, pc *PromptContext) bool

	// Render produces the text for this section.
	// Returns empty string to skip (no error).
	// A non-nil error is logged but does NOT abort the pipeline.
	Render(ctx context.Context, pc *PromptContext) (string, error)
}

// PromptMutator transforms the fully assembled patch text. Mutators run
// after all sections have been rendered.
type PromptMutator interface {
	// Name returns the mutator identifier.
	Name() string

	// Priority determines execution order among mutators (lower = first).
	Priority() int

	// Mutate receives the assembled patch and returns the transformed version.
	Mutate(ctx context.Context, pc *PromptContext, assembled string) (string, error)
}

// PromptContext is the data envelope passed to every PromptSection.Render().
// It carries everything sections may need about the message being replied to.
type PromptContext struct {
	// Sender identifies the user whose message is being replied to.
	Sender *SenderInfo

	// SessionID is the host's chat session identifier (may be empty).
	SessionID string

	// Mode controls section filtering granularity.
	Mode PromptMode

	// Now is the current time (set once per prompt assembly).
	Now time.Time

	// Extra holds additional key-value data that custom sections may need.
	// Unstructured extensibility, annotation-style.
	Extra map[string]interface{}
}
