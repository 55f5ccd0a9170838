package usecase

import (
	"context"
	"fmt"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/configuration"
)

// CredentialResolver resolves per-platform OAuth client credentials.
// Persisted application settings take precedence over process configuration;
// an empty result means the platform is not configured, not an error.
type CredentialResolver struct {
	settings repository.ISettings
}

func NewCredentialResolver(settings repository.ISettings) *CredentialResolver {
	return &CredentialResolver{settings: settings}
}

// SettingsKeys lists the credential keys bootstrapped into the settings
// store. Bootstrap only ever writes empty values.
func SettingsKeys() []string {
	keys := make([]string, 0, len(model.AllPlatforms())*2)
	for _, p := range model.AllPlatforms() {
		keys = append(keys, clientIDKey(p), clientSecretKey(p))
	}
	return keys
}

func clientIDKey(p model.Platform) string     { return fmt.Sprintf("%sClientId", p) }
func clientSecretKey(p model.Platform) string { return fmt.Sprintf("%sClientSecret", p) }

// Resolve returns the credentials for a platform, empty when nothing is
// configured. Callers must check Configured() and fail authorization with a
// platform-not-configured error, never a generic one.
func (r *CredentialResolver) Resolve(ctx context.Context, platform model.Platform) (model.ClientCredentials, error) {
	fallback := configuration.C.OAuth.Client(string(platform))
	creds := model.ClientCredentials{
		ClientID:     fallback.ClientID,
		ClientSecret: fallback.ClientSecret,
		RedirectURI:  fallback.RedirectURI,
	}

	if r.settings != nil {
		id, err := r.settings.Get(ctx, clientIDKey(platform))
		if err != nil {
			return model.ClientCredentials{}, err
		}
		secret, err := r.settings.Get(ctx, clientSecretKey(platform))
		if err != nil {
			return model.ClientCredentials{}, err
		}
		if id != "" {
			creds.ClientID = id
		}
		if secret != "" {
			creds.ClientSecret = secret
		}
	}

	if creds.RedirectURI == "" {
		creds.RedirectURI = fmt.Sprintf("%s/auth/%s/callback", configuration.C.App.BaseURL, platform)
	}
	return creds, nil
}

// ResolveRequired is Resolve plus the not-configured check.
func (r *CredentialResolver) ResolveRequired(ctx context.Context, platform model.Platform) (model.ClientCredentials, error) {
	creds, err := r.Resolve(ctx, platform)
	if err != nil {
		return model.ClientCredentials{}, err
	}
	if !creds.Configured() {
		return model.ClientCredentials{}, model.NewPublishErrorf(model.ErrKindNotConfigured, "platform %s is not available", platform)
	}
	return creds, nil
}
