package platform

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"clipcast/domain/model"
)

// classifyUploadError maps an upstream upload failure onto the error
// taxonomy. Structured signals (HTTP status, machine-readable error code)
// are preferred; matching known free-text fragments is the fallback arm for
// platforms that only return prose.
func classifyUploadError(statusCode int, code, message string, err error) *model.PublishError {
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return model.NewPublishError(model.ErrKindUnknown, "platform did not respond in time").WithDetail(message)
	}

	switch strings.ToLower(code) {
	case "scope_not_authorized", "scope_permission_missed", "insufficientpermissions", "access_token_invalid":
		return scopeInsufficientError(message)
	case "spam_risk_too_many_posts", "reached_active_user_cap", "user_requests_limit_exceeded", "quotaexceeded", "ratelimitexceeded", "uploadlimitexceeded":
		return quotaError(message)
	case "invalid_file_format", "video_format_check_failed", "picture_size_check_failed", "duration_check_failed", "invalidrequest":
		return contentRejectedError(message)
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "validation failed"),
		strings.Contains(lower, "file format"),
		strings.Contains(lower, "resolution"),
		strings.Contains(lower, "duration"),
		strings.Contains(lower, "aspect ratio"):
		return contentRejectedError(message)
	case strings.Contains(lower, "scope"),
		strings.Contains(lower, "permission"),
		strings.Contains(lower, "insufficient"):
		return scopeInsufficientError(message)
	case strings.Contains(lower, "quota"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "too many requests"):
		return quotaError(message)
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return model.NewPublishError(model.ErrKindReauthRequired, "platform no longer accepts this account's token, reconnect the account").WithDetail(message)
	case http.StatusForbidden:
		return scopeInsufficientError(message)
	case http.StatusTooManyRequests:
		return quotaError(message)
	}

	detail := message
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(detail)
}

func scopeInsufficientError(detail string) *model.PublishError {
	return model.NewPublishError(model.ErrKindScopeInsufficient,
		"the connected account is missing required permissions, reconnect and approve all permissions").WithDetail(detail)
}

func quotaError(detail string) *model.PublishError {
	return model.NewPublishError(model.ErrKindQuotaExceeded,
		"platform quota exceeded, check the limits in the platform's developer console").WithDetail(detail)
}

func contentRejectedError(detail string) *model.PublishError {
	return model.NewPublishError(model.ErrKindContentRejected,
		"the platform rejected this video, adjust it before retrying").WithDetail(detail)
}
