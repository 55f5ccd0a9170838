package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipcast/domain/model"
	"clipcast/infrastructure/logger"
)

// tokenClient performs the form-encoded HTTP exchange shared by every
// platform's code and refresh grants.
type tokenClient struct {
	httpClient *http.Client
}

func newTokenClient(timeout time.Duration) *tokenClient {
	return &tokenClient{httpClient: &http.Client{Timeout: timeout}}
}

// tokenResponse covers both wire shapes the supported platforms use: the
// standard flat OAuth body, and the nested-payload variant where the token
// fields live one level deeper under "data".
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	Scope            string `json:"scope"`
	OpenID           string `json:"open_id"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`

	Data *tokenResponse `json:"data"`
}

// flatten picks the payload that actually carries the token, normalising the
// nested shape into the flat one.
func (r *tokenResponse) flatten() *tokenResponse {
	if r.Data != nil && r.Data.AccessToken != "" {
		return r.Data
	}
	return r
}

func (r *tokenResponse) errorText() string {
	switch {
	case r.Error != "" && r.ErrorDescription != "":
		return r.Error + ": " + r.ErrorDescription
	case r.Error != "":
		return r.Error
	case r.Message != "":
		return r.Message
	case r.Data != nil && r.Data != r:
		return r.Data.errorText()
	}
	return ""
}

// post submits the grant form and normalises the response body into a
// TokenResult. Any non-2xx status or error-shaped body is an exchange
// failure; the upstream text is preserved as server-side detail only.
func (c *tokenClient) post(ctx context.Context, tokenURL string, form url.Values) (*model.TokenResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, model.NewPublishError(model.ErrKindExchangeFailed, "could not build token request").WithDetail(err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, model.NewPublishError(model.ErrKindUnknown, "token endpoint timed out").WithDetail(err.Error())
		}
		return nil, model.NewPublishError(model.ErrKindExchangeFailed, "token endpoint unreachable").WithDetail(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, model.NewPublishError(model.ErrKindExchangeFailed, "could not read token response").WithDetail(err.Error())
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, model.NewPublishError(model.ErrKindExchangeFailed, "malformed token response").
			WithDetail(fmt.Sprintf("status %d: %v", resp.StatusCode, err))
	}

	payload := parsed.flatten()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || payload.AccessToken == "" {
		detail := parsed.errorText()
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		logger.GetLogger().WithField("status", resp.StatusCode).Error("token exchange rejected by platform")
		return nil, model.NewPublishError(model.ErrKindExchangeFailed, "platform rejected the token request").WithDetail(detail)
	}

	return &model.TokenResult{
		AccessToken:   payload.AccessToken,
		RefreshToken:  payload.RefreshToken,
		ExpiresIn:     payload.ExpiresIn,
		GrantedScopes: SplitScopes(payload.Scope),
		AccountID:     payload.OpenID,
	}, nil
}

// grantForms builds the two standard grant bodies. The client-identifier
// field name comes from the profile because at least one platform renames it.
func codeGrantForm(profile model.PlatformProfile, creds model.ClientCredentials, code, redirectURI, codeVerifier string) url.Values {
	form := url.Values{
		clientIDParam(profile): {creds.ClientID},
		"client_secret":        {creds.ClientSecret},
		"code":                 {code},
		"grant_type":           {"authorization_code"},
		"redirect_uri":         {redirectURI},
	}
	if codeVerifier != "" {
		form.Set("code_verifier", codeVerifier)
	}
	return form
}

func refreshGrantForm(profile model.PlatformProfile, creds model.ClientCredentials, refreshToken string) url.Values {
	return url.Values{
		clientIDParam(profile): {creds.ClientID},
		"client_secret":        {creds.ClientSecret},
		"grant_type":           {"refresh_token"},
		"refresh_token":        {refreshToken},
	}
}

func clientIDParam(profile model.PlatformProfile) string {
	if profile.ClientIDParam != "" {
		return profile.ClientIDParam
	}
	return "client_id"
}

// exchanger implements the Exchange/Refresh half of IPlatformIntegration for
// any profile; integrations embed it and add their upload strategy.
type exchanger struct {
	profile model.PlatformProfile
	tokens  *tokenClient

	// tokenURL overrides the profile's token endpoint when set (tests).
	tokenURL string
}

func (e *exchanger) Profile() model.PlatformProfile { return e.profile }

func (e *exchanger) endpoint() string {
	if e.tokenURL != "" {
		return e.tokenURL
	}
	return e.profile.TokenURL
}

func (e *exchanger) Exchange(ctx context.Context, creds model.ClientCredentials, code, redirectURI, codeVerifier string) (*model.TokenResult, error) {
	if e.profile.RequiresPKCE && codeVerifier == "" {
		return nil, model.NewPublishError(model.ErrKindInvalidRequest, "authorization attempt is missing its code verifier")
	}
	result, err := e.tokens.post(ctx, e.endpoint(), codeGrantForm(e.profile, creds, code, redirectURI, codeVerifier))
	if err != nil {
		return nil, err
	}
	// Missing required scopes flag the account as limited; they never abort
	// the connection.
	result.MissingScopes = MissingScopes(e.profile.Scopes, result.GrantedScopes)
	result.ScopeWarning = len(result.MissingScopes) > 0
	return result, nil
}

func (e *exchanger) Refresh(ctx context.Context, creds model.ClientCredentials, refreshToken string) (*model.TokenResult, error) {
	return e.tokens.post(ctx, e.endpoint(), refreshGrantForm(e.profile, creds, refreshToken))
}
