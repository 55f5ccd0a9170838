package model

import "strings"

// Platform identifies a supported social platform
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
)

// AllPlatforms lists every platform the subsystem knows about
func AllPlatforms() []Platform {
	return []Platform{PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformFacebook, PlatformTwitter}
}

// ParsePlatform normalises a route/query value into a Platform
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformFacebook, PlatformTwitter:
		return p, true
	}
	return "", false
}

func (p Platform) String() string { return string(p) }

// ChallengeEncoding selects how a PKCE code challenge is derived from the verifier.
// The hash is always SHA-256; platforms disagree on how the digest is encoded.
type ChallengeEncoding string

const (
	ChallengeS256    ChallengeEncoding = "S256"     // base64url(raw digest), no padding
	ChallengeS256Hex ChallengeEncoding = "S256_HEX" // lowercase hex digest (TikTok)
)

// PlatformProfile declares the fixed OAuth properties of one platform.
type PlatformProfile struct {
	Platform          Platform
	AuthURL           string
	TokenURL          string
	Scopes            []string
	RequiresPKCE      bool
	ChallengeEncoding ChallengeEncoding
	// ExtraAuthParams are fixed additional authorization-URL parameters
	// (e.g. access_type=offline for Google).
	ExtraAuthParams map[string]string
	// ClientIDParam is the form field carrying the client identifier at the
	// token endpoint. Most platforms use client_id; TikTok renames it.
	ClientIDParam string
	SupportsInbox bool
}

// ClientCredentials is a resolved OAuth client id/secret pair for one platform.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Configured reports whether the platform can be used for authorization.
func (c ClientCredentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
