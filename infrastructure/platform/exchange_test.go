package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"clipcast/domain/model"
)

func testCredentials() model.ClientCredentials {
	return model.ClientCredentials{ClientID: "client-id", ClientSecret: "client-secret"}
}

func TestExchanger_FlatPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client-id", r.PostFormValue("client_id"))
		require.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		require.Equal(t, "the-code", r.PostFormValue("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":7200,"scope":"https://www.googleapis.com/auth/youtube.upload https://www.googleapis.com/auth/youtube"}`))
	}))
	defer server.Close()

	y := NewYouTubeIntegration(Options{})
	y.tokenURL = server.URL

	result, err := y.Exchange(context.Background(), testCredentials(), "the-code", "https://app/callback", "")
	require.NoError(t, err)
	require.Equal(t, "at", result.AccessToken)
	require.Equal(t, "rt", result.RefreshToken)
	require.Equal(t, int64(7200), result.ExpiresIn)
	require.False(t, result.ScopeWarning)
	require.Empty(t, result.MissingScopes)
}

func TestExchanger_NestedPayloadAndClientKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		// TikTok renames the client identifier and nests the token payload.
		require.Equal(t, "client-id", r.PostFormValue("client_key"))
		require.Empty(t, r.PostFormValue("client_id"))
		require.Equal(t, "the-verifier", r.PostFormValue("code_verifier"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"access_token":"at","refresh_token":"rt","expires_in":86400,"open_id":"open-123","scope":"user.info.basic,video.upload,video.publish"}}`))
	}))
	defer server.Close()

	tk := NewTikTokIntegration(Options{})
	tk.tokenURL = server.URL

	result, err := tk.Exchange(context.Background(), testCredentials(), "the-code", "https://app/callback", "the-verifier")
	require.NoError(t, err)
	require.Equal(t, "at", result.AccessToken)
	require.Equal(t, "open-123", result.AccountID)
	require.False(t, result.ScopeWarning)
}

func TestExchanger_MissingScopeFlagsLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"access_token":"at","scope":"user.info.basic,video.upload"}}`))
	}))
	defer server.Close()

	tk := NewTikTokIntegration(Options{})
	tk.tokenURL = server.URL

	result, err := tk.Exchange(context.Background(), testCredentials(), "code", "https://app/callback", "verifier")
	require.NoError(t, err)
	require.True(t, result.ScopeWarning)
	require.Equal(t, []string{"video.publish"}, result.MissingScopes)
}

func TestExchanger_PKCERequiredButVerifierMissing(t *testing.T) {
	tk := NewTikTokIntegration(Options{})
	tk.tokenURL = "http://127.0.0.1:0"

	_, err := tk.Exchange(context.Background(), testCredentials(), "code", "https://app/callback", "")
	require.Error(t, err)
	require.Equal(t, model.ErrKindInvalidRequest, model.KindOf(err))
}

func TestExchanger_UpstreamRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer server.Close()

	y := NewYouTubeIntegration(Options{})
	y.tokenURL = server.URL

	_, err := y.Exchange(context.Background(), testCredentials(), "stale-code", "https://app/callback", "")
	require.Error(t, err)
	require.Equal(t, model.ErrKindExchangeFailed, model.KindOf(err))

	var pe *model.PublishError
	require.ErrorAs(t, err, &pe)
	require.Contains(t, pe.Detail, "invalid_grant")
	// The upstream text stays server-side; the user message is generic.
	require.NotContains(t, pe.Message, "invalid_grant")
}

func TestExchanger_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.PostFormValue("grant_type"))
		require.Equal(t, "old-rt", r.PostFormValue("refresh_token"))
		w.Write([]byte(`{"access_token":"new-at","expires_in":3600}`))
	}))
	defer server.Close()

	y := NewYouTubeIntegration(Options{})
	y.tokenURL = server.URL

	result, err := y.Refresh(context.Background(), testCredentials(), "old-rt")
	require.NoError(t, err)
	require.Equal(t, "new-at", result.AccessToken)
	// Some platforms omit a new refresh token; the caller keeps the old one.
	require.Empty(t, result.RefreshToken)
}
