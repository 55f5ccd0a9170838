package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clipcast/domain/model"
	"clipcast/infrastructure/configuration"
)

func TestCredentialResolver_SettingsOverrideConfiguration(t *testing.T) {
	configuration.C.OAuth.TikTok = configuration.OAuthClient{ClientID: "config-id", ClientSecret: "config-secret"}

	settings := new(mockSettingsRepo)
	settings.On("Get", mock.Anything, "tiktokClientId").Return("settings-id", nil)
	settings.On("Get", mock.Anything, "tiktokClientSecret").Return("settings-secret", nil)

	resolver := NewCredentialResolver(settings)
	creds, err := resolver.Resolve(context.Background(), model.PlatformTikTok)
	require.NoError(t, err)
	require.Equal(t, "settings-id", creds.ClientID)
	require.Equal(t, "settings-secret", creds.ClientSecret)
}

func TestCredentialResolver_FallsBackToConfiguration(t *testing.T) {
	configuration.C.OAuth.YouTube = configuration.OAuthClient{ClientID: "config-id", ClientSecret: "config-secret", RedirectURI: "https://app/auth/youtube/callback"}

	settings := new(mockSettingsRepo)
	settings.On("Get", mock.Anything, mock.Anything).Return("", nil)

	resolver := NewCredentialResolver(settings)
	creds, err := resolver.Resolve(context.Background(), model.PlatformYouTube)
	require.NoError(t, err)
	require.Equal(t, "config-id", creds.ClientID)
	require.Equal(t, "https://app/auth/youtube/callback", creds.RedirectURI)
}

func TestCredentialResolver_DefaultRedirectURI(t *testing.T) {
	configuration.C.App.BaseURL = "https://clipcast.example"
	configuration.C.OAuth.Facebook = configuration.OAuthClient{ClientID: "id", ClientSecret: "secret"}

	resolver := NewCredentialResolver(nil)
	creds, err := resolver.Resolve(context.Background(), model.PlatformFacebook)
	require.NoError(t, err)
	require.Equal(t, "https://clipcast.example/auth/facebook/callback", creds.RedirectURI)
}

func TestCredentialResolver_NotConfigured(t *testing.T) {
	configuration.C.OAuth.Twitter = configuration.OAuthClient{}

	resolver := NewCredentialResolver(nil)
	_, err := resolver.ResolveRequired(context.Background(), model.PlatformTwitter)
	require.Error(t, err)
	require.Equal(t, model.ErrKindNotConfigured, model.KindOf(err))
}

func TestSettingsKeys_CoverEveryPlatform(t *testing.T) {
	keys := SettingsKeys()
	require.Len(t, keys, len(model.AllPlatforms())*2)
	require.Contains(t, keys, "youtubeClientId")
	require.Contains(t, keys, "tiktokClientSecret")
}
