package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clipcast/domain/dto"
	"clipcast/domain/model"
	"clipcast/infrastructure/logger"
)

// statusForKind maps the error taxonomy onto HTTP statuses. Each class keeps
// a distinct status so the UI can render a specific remediation message.
func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.ErrKindNotConfigured,
		model.ErrKindInvalidRequest,
		model.ErrKindInvalidState,
		model.ErrKindPlatformMismatch,
		model.ErrKindConsentDenied,
		model.ErrKindValidation:
		return http.StatusBadRequest
	case model.ErrKindReauthRequired:
		return http.StatusUnauthorized
	case model.ErrKindForbidden, model.ErrKindScopeInsufficient:
		return http.StatusForbidden
	case model.ErrKindNotFound, model.ErrKindContentNotFound:
		return http.StatusNotFound
	case model.ErrKindConflict, model.ErrKindInboxLimit:
		return http.StatusConflict
	case model.ErrKindContentRejected:
		return http.StatusUnprocessableEntity
	case model.ErrKindQuotaExceeded:
		return http.StatusTooManyRequests
	case model.ErrKindNotSupported:
		return http.StatusNotImplemented
	}
	return http.StatusBadGateway
}

// writeError renders the typed error body. Upstream detail stays in the
// server-side log; the response carries only the classified kind and the
// user-safe message.
func writeError(ctx *gin.Context, err error) {
	pe := model.AsPublishError(err)
	if pe.Detail != "" {
		logger.GetLogger().
			WithField("kind", pe.Kind).
			WithField("detail", pe.Detail).
			WithField("path", ctx.FullPath()).
			Warn("request failed")
	}
	ctx.JSON(statusForKind(pe.Kind), dto.ErrorResponse{
		Error:   string(pe.Kind),
		Details: pe.Message,
	})
}
