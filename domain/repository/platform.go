package repository

import (
	"context"

	"clipcast/domain/model"
)

// UploadRequest carries everything a platform integration needs to publish
// one piece of content. Account tokens are plaintext (already decrypted and
// refreshed by the dispatcher).
type UploadRequest struct {
	Account  *model.SocialAccount
	Video    *model.Video
	Caption  string
	Hashtags []string
	// Mode selects the upload strategy: direct (default) or inbox where the
	// platform supports it.
	Mode    string
	Options map[string]string
}

// IPlatformIntegration is the closed per-platform variant behind which each
// platform carries its own profile, exchange shaping and upload strategy.
// Adding a platform means adding one implementation, not editing branches.
type IPlatformIntegration interface {
	Profile() model.PlatformProfile

	// Exchange swaps an authorization code for tokens, normalising the
	// platform's wire shape into a TokenResult and verifying granted scopes.
	Exchange(ctx context.Context, creds model.ClientCredentials, code, redirectURI, codeVerifier string) (*model.TokenResult, error)

	// Refresh swaps a refresh token for a new token pair.
	Refresh(ctx context.Context, creds model.ClientCredentials, refreshToken string) (*model.TokenResult, error)

	// Publish drives the platform-specific upload strategy to a typed result
	// or a classified *model.PublishError.
	Publish(ctx context.Context, req *UploadRequest) (*model.PublishResult, error)
}

// IRefreshLock serialises token refresh per account across process instances.
type IRefreshLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
