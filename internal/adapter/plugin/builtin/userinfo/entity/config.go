package entity

import (
	"fmt"
	"time"
)

// UserInfoConfig is the resolved configuration for the user-info plugin.
// Loaded once at startup; never mutated afterwards.
type UserInfoConfig struct {
	// Enabled controls whether user info fetching is active.
	// When false the plugin is a pass-through: no fetch, no injection.
	Enabled bool `json:"enabled"`

	// APIBaseURL is the base URL of the companion bot's HTTP API.
	APIBaseURL string `json:"api_base_url"`

	// RequestTimeoutSeconds bounds each outbound API call. Fractional
	// seconds are allowed.
	RequestTimeoutSeconds float64 `json:"request_timeout"`

	// LogResult controls whether each fetch outcome is logged.
	LogResult bool `json:"log_info_result"`

	// CacheEnabled controls whether fetched records are cached.
	CacheEnabled bool `json:"enable_cache"`

	// Debug enables verbose per-message diagnostics.
	Debug bool `json:"enable_debug"`
}

// RequestTimeout returns the request timeout as a Duration.
func (c *UserInfoConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds * float64(time.Second))
}

// Validate checks the configuration for obvious mistakes.
func (c *UserInfoConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeoutSeconds)
	}
	return nil
}

// DefaultUserInfoConfig returns the default user-info configuration.
func DefaultUserInfoConfig() *UserInfoConfig {
	return &UserInfoConfig{
		Enabled:               true,
		APIBaseURL:            "http://10.255.255.254",
		RequestTimeoutSeconds: 5.0,
		LogResult:             true,
		CacheEnabled:          true,
		Debug:                 false,
	}
}
