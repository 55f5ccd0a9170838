package model

import "time"

// SocialAccount represents one connected platform account for a user.
// Access and refresh tokens are plaintext only in process memory; the
// persistence layer stores them encrypted and never logs them.
type SocialAccount struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	Platform       Platform   `json:"platform"`
	AccountName    string     `json:"account_name"`
	AccessToken    string     `json:"-"`
	RefreshToken   string     `json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TokenExpired reports whether the stored access token must be refreshed
// before use. An absent expiry is treated as expired: we cannot prove the
// token is still valid, so a refresh (when possible) is attempted.
func (a *SocialAccount) TokenExpired(now time.Time) bool {
	return a.TokenExpiresAt == nil || !a.TokenExpiresAt.After(now)
}

// CanRefresh reports whether a silent renewal is possible at all.
func (a *SocialAccount) CanRefresh() bool {
	return a.RefreshToken != ""
}

// SocialAccountSummary is the secret-free view returned to callers.
type SocialAccountSummary struct {
	ID          int64     `json:"id"`
	Platform    Platform  `json:"platform"`
	AccountName string    `json:"account_name"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// LimitedAccessSuffix marks accounts connected without every required scope.
const LimitedAccessSuffix = " (Limited Access)"
