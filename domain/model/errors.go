package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies publish/connect failures so that handlers can choose
// an HTTP status and remediation message per class.
type ErrorKind string

const (
	ErrKindNotConfigured     ErrorKind = "platform_not_configured"
	ErrKindInvalidRequest    ErrorKind = "invalid_request"
	ErrKindInvalidState      ErrorKind = "invalid_state"
	ErrKindPlatformMismatch  ErrorKind = "platform_mismatch"
	ErrKindConsentDenied     ErrorKind = "consent_denied"
	ErrKindExchangeFailed    ErrorKind = "exchange_failed"
	ErrKindReauthRequired    ErrorKind = "reauthorization_required"
	ErrKindContentNotFound   ErrorKind = "content_not_found"
	ErrKindScopeInsufficient ErrorKind = "scope_insufficient"
	ErrKindContentRejected   ErrorKind = "content_rejected"
	ErrKindQuotaExceeded     ErrorKind = "quota_exceeded"
	ErrKindInboxLimit        ErrorKind = "inbox_limit_reached"
	ErrKindNotSupported      ErrorKind = "platform_not_supported"
	ErrKindForbidden         ErrorKind = "forbidden"
	ErrKindNotFound          ErrorKind = "not_found"
	ErrKindConflict          ErrorKind = "conflict"
	ErrKindValidation        ErrorKind = "validation_failed"
	ErrKindUnknown           ErrorKind = "unknown"
)

// PublishError carries a classified failure. Message is safe to show to the
// end user; Detail preserves upstream diagnostics for server-side logs only.
type PublishError struct {
	Kind    ErrorKind
	Message string
	Detail  string
}

func (e *PublishError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether a caller-invoked retry is eligible. Only the
// unknown/transient class qualifies; every other class fails identically on
// an unchanged retry.
func (e *PublishError) Retryable() bool { return e.Kind == ErrKindUnknown }

// NewPublishError builds a classified error with a user-facing message.
func NewPublishError(kind ErrorKind, message string) *PublishError {
	return &PublishError{Kind: kind, Message: message}
}

// NewPublishErrorf is NewPublishError with formatting.
func NewPublishErrorf(kind ErrorKind, format string, args ...interface{}) *PublishError {
	return &PublishError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithDetail attaches upstream diagnostics without changing the user message.
func (e *PublishError) WithDetail(detail string) *PublishError {
	e.Detail = detail
	return e
}

// KindOf extracts the ErrorKind from any error, defaulting to unknown.
func KindOf(err error) ErrorKind {
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrKindUnknown
}

// AsPublishError wraps arbitrary errors into the unknown/transient class.
func AsPublishError(err error) *PublishError {
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe
	}
	return &PublishError{Kind: ErrKindUnknown, Message: "publish failed", Detail: err.Error()}
}
