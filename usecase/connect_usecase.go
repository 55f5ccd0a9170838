package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
	"clipcast/infrastructure/oauthstate"
)

// AuthorizationStart is everything the HTTP layer needs to send the user to
// the platform's consent screen.
type AuthorizationStart struct {
	RedirectURL  string
	State        string
	CodeVerifier string // empty unless the platform profile requires PKCE
	RedirectURI  string
}

// ConnectResult is the outcome of a completed authorization.
type ConnectResult struct {
	Account       *model.SocialAccount
	ScopeWarning  bool
	MissingScopes []string
}

// ConnectUsecase drives the platform-connection flow: consent URL
// construction at start, token exchange and account persistence at callback.
type ConnectUsecase struct {
	accounts repository.ISocialAccount
	resolver *CredentialResolver
	registry IntegrationRegistry
}

func NewConnectUsecase(accounts repository.ISocialAccount, resolver *CredentialResolver, registry IntegrationRegistry) *ConnectUsecase {
	return &ConnectUsecase{accounts: accounts, resolver: resolver, registry: registry}
}

// authURLParams is the fixed part of every consent URL.
type authURLParams struct {
	ResponseType string `url:"response_type"`
	RedirectURI  string `url:"redirect_uri"`
	Scope        string `url:"scope"`
	State        string `url:"state"`
}

// Start builds the consent redirect and the transient state/verifier values
// the HTTP layer stores in short-lived cookies.
func (u *ConnectUsecase) Start(ctx context.Context, userID string, p model.Platform) (*AuthorizationStart, error) {
	integration, err := u.registry.Get(p)
	if err != nil {
		return nil, err
	}
	profile := integration.Profile()

	creds, err := u.resolver.ResolveRequired(ctx, p)
	if err != nil {
		return nil, err
	}

	state, err := oauthstate.GenerateState(userID, p)
	if err != nil {
		return nil, err
	}

	values, err := query.Values(authURLParams{
		ResponseType: "code",
		RedirectURI:  creds.RedirectURI,
		Scope:        strings.Join(profile.Scopes, " "),
		State:        state,
	})
	if err != nil {
		return nil, err
	}
	clientIDParam := profile.ClientIDParam
	if clientIDParam == "" {
		clientIDParam = "client_id"
	}
	values.Set(clientIDParam, creds.ClientID)
	for k, v := range profile.ExtraAuthParams {
		values.Set(k, v)
	}

	verifier := ""
	if profile.RequiresPKCE {
		verifier, err = oauthstate.GenerateCodeVerifier()
		if err != nil {
			return nil, err
		}
		values.Set("code_challenge", oauthstate.CodeChallenge(verifier, profile.ChallengeEncoding))
		values.Set("code_challenge_method", "S256")
	}

	redirect, err := url.Parse(profile.AuthURL)
	if err != nil {
		return nil, err
	}
	redirect.RawQuery = values.Encode()

	return &AuthorizationStart{
		RedirectURL:  redirect.String(),
		State:        state,
		CodeVerifier: verifier,
		RedirectURI:  creds.RedirectURI,
	}, nil
}

// Complete exchanges the callback code and persists the account. A limited
// scope grant still saves the account, suffixed, with the warning surfaced to
// the caller.
func (u *ConnectUsecase) Complete(ctx context.Context, userID string, p model.Platform, code, redirectURI, codeVerifier string) (*ConnectResult, error) {
	integration, err := u.registry.Get(p)
	if err != nil {
		return nil, err
	}

	creds, err := u.resolver.ResolveRequired(ctx, p)
	if err != nil {
		return nil, err
	}

	result, err := integration.Exchange(ctx, creds, code, redirectURI, codeVerifier)
	if err != nil {
		return nil, err
	}

	name := accountName(p, result)
	if result.ScopeWarning && !strings.HasSuffix(name, model.LimitedAccessSuffix) {
		name += model.LimitedAccessSuffix
	}

	expiry := result.ExpiryFrom(time.Now())
	account, err := u.accounts.Upsert(ctx, &model.SocialAccount{
		UserID:         userID,
		Platform:       p,
		AccountName:    name,
		AccessToken:    result.AccessToken,
		RefreshToken:   result.RefreshToken,
		TokenExpiresAt: &expiry,
	})
	if err != nil {
		return nil, err
	}

	logger.GetLogger().
		WithField("platform", p).
		WithField("account_id", account.ID).
		WithField("scope_warning", result.ScopeWarning).
		Info("platform account connected")

	return &ConnectResult{
		Account:       account,
		ScopeWarning:  result.ScopeWarning,
		MissingScopes: result.MissingScopes,
	}, nil
}

var platformDisplayNames = map[model.Platform]string{
	model.PlatformYouTube:   "YouTube Channel",
	model.PlatformTikTok:    "TikTok Account",
	model.PlatformInstagram: "Instagram Account",
	model.PlatformFacebook:  "Facebook Page",
	model.PlatformTwitter:   "Twitter Account",
}

func accountName(p model.Platform, result *model.TokenResult) string {
	if result.AccountName != "" {
		return result.AccountName
	}
	name := platformDisplayNames[p]
	if name == "" {
		name = string(p)
	}
	if result.AccountID != "" {
		short := result.AccountID
		if len(short) > 8 {
			short = short[:8]
		}
		name = fmt.Sprintf("%s %s", name, short)
	}
	return name
}
