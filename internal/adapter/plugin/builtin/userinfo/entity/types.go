package entity

import (
	"time"
)

// UserRecord is one user's favorability snapshot as returned by the
// companion bot's API. The favorability score and attitude are opaque to
// the adapter; their meaning is owned by the companion bot.
type UserRecord struct {
	// UserID is the platform-level user identifier.
	UserID string `json:"user_id"`

	// DisplayName is the name the user was addressed by when fetched.
	DisplayName string `json:"display_name"`

	// Favorability is the numeric favorability score.
	Favorability float64 `json:"favorability"`

	// Attitude is the bot's attitude toward the user, in natural language.
	Attitude string `json:"attitude"`

	// FetchedAt is when the record was obtained from the API.
	FetchedAt time.Time `json:"fetched_at"`
}
