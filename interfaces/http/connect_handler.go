package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"clipcast/domain/model"
	"clipcast/infrastructure/configuration"
	"clipcast/infrastructure/logger"
	"clipcast/infrastructure/oauthstate"
	"clipcast/usecase"
)

const (
	cookieState        = "oauth_state"
	cookieCodeVerifier = "oauth_code_verifier"
	cookieRedirectURI  = "oauth_redirect_uri"

	// Consent flows are expected to complete well within this window.
	stateCookieMaxAge = 600
)

type IConnectHandler interface {
	Start(ctx *gin.Context)
	Callback(ctx *gin.Context)
}

type ConnectHandler struct {
	connectUsecase *usecase.ConnectUsecase
}

func NewConnectHandler(connectUsecase *usecase.ConnectUsecase) IConnectHandler {
	return &ConnectHandler{connectUsecase: connectUsecase}
}

// Start redirects the browser to the platform's consent screen. The CSRF
// state and, for PKCE platforms, the code verifier travel in short-lived
// HttpOnly cookies scoped to the matching callback path.
func (h *ConnectHandler) Start(ctx *gin.Context) {
	platform, ok := model.ParsePlatform(ctx.Param("platform"))
	if !ok {
		uiRedirect(ctx, url.Values{"error": {string(model.ErrKindNotSupported)}})
		return
	}

	userID := ctx.GetString("user_id")
	if userID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	start, err := h.connectUsecase.Start(ctx.Request.Context(), userID, platform)
	if err != nil {
		logger.GetLogger().
			WithField("platform", platform).
			WithError(err).
			Warn("authorization start failed")
		uiRedirect(ctx, url.Values{"error": {string(model.KindOf(err))}})
		return
	}

	path := callbackPath(platform)
	ctx.SetCookie(cookieState, start.State, stateCookieMaxAge, path, "", false, true)
	ctx.SetCookie(cookieRedirectURI, start.RedirectURI, stateCookieMaxAge, path, "", false, true)
	if start.CodeVerifier != "" {
		ctx.SetCookie(cookieCodeVerifier, start.CodeVerifier, stateCookieMaxAge, path, "", false, true)
	}

	ctx.Redirect(http.StatusFound, start.RedirectURL)
}

// Callback finishes the flow. Every exit clears the flow cookies and ends in
// a redirect to the UI carrying a machine-readable outcome, so the browser
// never lands on a bare JSON error page mid-flow.
func (h *ConnectHandler) Callback(ctx *gin.Context) {
	platform, ok := model.ParsePlatform(ctx.Param("platform"))
	if !ok {
		uiRedirect(ctx, url.Values{"error": {string(model.ErrKindNotSupported)}})
		return
	}

	stateCookie, _ := ctx.Cookie(cookieState)
	verifierCookie, _ := ctx.Cookie(cookieCodeVerifier)
	redirectURICookie, _ := ctx.Cookie(cookieRedirectURI)
	clearFlowCookies(ctx, platform)

	if errParam := ctx.Query("error"); errParam != "" {
		kind := model.ErrKindInvalidRequest
		if errParam == "access_denied" {
			kind = model.ErrKindConsentDenied
		}
		logger.GetLogger().
			WithField("platform", platform).
			WithField("provider_error", errParam).
			Info("authorization declined by provider")
		uiRedirect(ctx, url.Values{"error": {string(kind)}})
		return
	}

	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" || stateCookie == "" || state != stateCookie {
		uiRedirect(ctx, url.Values{"error": {string(model.ErrKindInvalidState)}})
		return
	}

	userID, statePlatform, _, ok := oauthstate.ParseState(state)
	if !ok {
		uiRedirect(ctx, url.Values{"error": {string(model.ErrKindInvalidState)}})
		return
	}
	if statePlatform != platform {
		uiRedirect(ctx, url.Values{"error": {string(model.ErrKindPlatformMismatch)}})
		return
	}

	result, err := h.connectUsecase.Complete(ctx.Request.Context(), userID, platform, code, redirectURICookie, verifierCookie)
	if err != nil {
		pe := model.AsPublishError(err)
		logger.GetLogger().
			WithField("platform", platform).
			WithField("kind", pe.Kind).
			WithField("detail", pe.Detail).
			Warn("authorization completion failed")
		uiRedirect(ctx, url.Values{"error": {string(pe.Kind)}})
		return
	}

	values := url.Values{"connected": {string(platform)}}
	if result.ScopeWarning {
		values.Set("scope_warning", "true")
		values.Set("missing_scopes", strings.Join(result.MissingScopes, ","))
	}
	uiRedirect(ctx, values)
}

func callbackPath(p model.Platform) string {
	return fmt.Sprintf("/auth/%s/callback", p)
}

func clearFlowCookies(ctx *gin.Context, p model.Platform) {
	path := callbackPath(p)
	ctx.SetCookie(cookieState, "", -1, path, "", false, true)
	ctx.SetCookie(cookieCodeVerifier, "", -1, path, "", false, true)
	ctx.SetCookie(cookieRedirectURI, "", -1, path, "", false, true)
}

// uiRedirect sends the browser back to the frontend with the flow outcome in
// the query string.
func uiRedirect(ctx *gin.Context, values url.Values) {
	target := configuration.C.App.UIRedirectURL
	if strings.Contains(target, "?") {
		target += "&" + values.Encode()
	} else {
		target += "?" + values.Encode()
	}
	ctx.Redirect(http.StatusFound, target)
}
