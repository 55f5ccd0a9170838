package dto

import (
	"time"

	"clipcast/domain/model"
)

// Res is the generic error/response envelope used by middleware.
type Res struct {
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

// PublishRequest is the immediate-publish body.
type PublishRequest struct {
	SocialAccountID int64             `json:"socialAccountId" binding:"required"`
	VideoID         int64             `json:"videoId" binding:"required"`
	Caption         string            `json:"caption"`
	Hashtags        []string          `json:"hashtags"`
	PublishMode     string            `json:"publishMode"` // direct (default) | inbox
	PlatformOptions map[string]string `json:"platformOptions"`
}

// PublishResponse wraps the dispatcher outcome plus the persisted record.
type PublishResponse struct {
	Success     bool                 `json:"success"`
	PostURL     string               `json:"postUrl,omitempty"`
	PublishType string               `json:"publishType"`
	Post        *model.ScheduledPost `json:"post"`
}

// ScheduleRequest creates a future publish intent.
type ScheduleRequest struct {
	SocialAccountID int64     `json:"socialAccountId" binding:"required"`
	VideoID         int64     `json:"videoId" binding:"required"`
	Caption         string    `json:"caption"`
	Hashtags        []string  `json:"hashtags"`
	ScheduledFor    time.Time `json:"scheduledFor" binding:"required"`
}

// ScheduleListResponse is the paginated scheduled-post listing.
type ScheduleListResponse struct {
	Posts []*model.ScheduledPost `json:"posts"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
	Total int64                  `json:"total"`
}

// RetryResponse acknowledges that a retry was dispatched; the final status is
// observable only via the list/detail surface.
type RetryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the typed error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
