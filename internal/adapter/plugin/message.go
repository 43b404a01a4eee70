package plugin

// MessageEvent is the inbound message envelope delivered to
// HookMessageReceived handlers. The field set follows the host framework's
// message contract; fields the host does not populate stay empty.
type MessageEvent struct {
	// UserID is the platform-level identifier of the sender.
	UserID string

	// Nickname is the sender's account nickname.
	Nickname string

	// CardName is the sender's per-group display name, when available.
	CardName string

	// SessionID identifies the chat session the message belongs to.
	SessionID string

	// PlainText is the message content with markup stripped.
	PlainText string
}

// DisplayName returns the name the sender should be addressed by:
// the group card name when set, otherwise the nickname.
func (m *MessageEvent) DisplayName() string {
	if m.CardName != "" {
		return m.CardName
	}
	return m.Nickname
}
