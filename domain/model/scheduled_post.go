package model

import "time"

// PostStatus is the lifecycle status of a ScheduledPost. The persisted status
// is the single source of truth for what the UI shows.
type PostStatus string

const (
	PostStatusScheduled  PostStatus = "SCHEDULED"
	PostStatusProcessing PostStatus = "PROCESSING"
	PostStatusPublished  PostStatus = "PUBLISHED"
	PostStatusFailed     PostStatus = "FAILED"
	PostStatusDraft      PostStatus = "DRAFT"
)

// ParsePostStatus validates a status filter value.
func ParsePostStatus(s string) (PostStatus, bool) {
	st := PostStatus(s)
	switch st {
	case PostStatusScheduled, PostStatusProcessing, PostStatusPublished, PostStatusFailed, PostStatusDraft:
		return st, true
	}
	return "", false
}

// CanTransitionTo enforces state-machine legality:
// SCHEDULED→PROCESSING, PROCESSING→{PUBLISHED,FAILED,DRAFT}, FAILED→PROCESSING.
// FAILED→PROCESSING is the only transition out of a terminal state.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	switch s {
	case PostStatusScheduled:
		return next == PostStatusProcessing
	case PostStatusProcessing:
		return next == PostStatusPublished || next == PostStatusFailed || next == PostStatusDraft
	case PostStatusFailed:
		return next == PostStatusProcessing
	}
	return false
}

// Terminal reports whether the status is an end state of an attempt.
func (s PostStatus) Terminal() bool {
	return s == PostStatusPublished || s == PostStatusFailed || s == PostStatusDraft
}

// ScheduledPost is one publish intent, immediate or scheduled.
type ScheduledPost struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	SocialAccountID int64      `json:"social_account_id"`
	VideoID         int64      `json:"video_id"`
	Caption         string     `json:"caption"`
	Hashtags        []string   `json:"hashtags"`
	ScheduledFor    time.Time  `json:"scheduled_for"`
	Status          PostStatus `json:"status"`
	PostURL         *string    `json:"post_url,omitempty"`
	PlatformPostID  *string    `json:"platform_post_id,omitempty"`
	FailureReason   *string    `json:"failure_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
