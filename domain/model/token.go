package model

import "time"

// DefaultTokenLifetime is assumed when a platform omits expires_in.
const DefaultTokenLifetime = 3600 * time.Second

// TokenResult is the normalised outcome of a code exchange or refresh,
// regardless of the wire shape the platform used.
type TokenResult struct {
	AccessToken   string
	RefreshToken  string
	ExpiresIn     int64 // seconds; 0 when the platform omitted it
	GrantedScopes []string

	// Platform-reported identity of the authorized account, when available
	// (e.g. TikTok open_id). Used to derive the stored account name.
	AccountID   string
	AccountName string

	// Scope verification outcome. A warning does not abort the connection;
	// the account is saved flagged as limited.
	ScopeWarning  bool
	MissingScopes []string
}

// ExpiryFrom computes the absolute expiry for this result, applying the
// default lifetime when the platform omitted expires_in.
func (t *TokenResult) ExpiryFrom(now time.Time) time.Time {
	secs := t.ExpiresIn
	if secs <= 0 {
		secs = int64(DefaultTokenLifetime / time.Second)
	}
	return now.Add(time.Duration(secs) * time.Second)
}

// PublishResult is the typed outcome of a successful dispatch.
type PublishResult struct {
	PostURL        string `json:"post_url,omitempty"`
	PlatformPostID string `json:"platform_post_id,omitempty"`
	// PublishType is direct, inbox, or simulated.
	PublishType string `json:"publish_type"`
	// Simulated marks a synthesised success from a platform without a real
	// integration. Never hidden: the flag travels with the result.
	Simulated        bool   `json:"simulated,omitempty"`
	SimulationReason string `json:"simulation_reason,omitempty"`
}

const (
	PublishTypeDirect    = "direct"
	PublishTypeInbox     = "inbox"
	PublishTypeSimulated = "simulated"
)

// InboxPendingLimit is the platform-side ceiling of unpublished inbox items
// beyond which uploads are refused up front.
const InboxPendingLimit = 5
