package repository

import (
	"context"
	"time"

	"clipcast/domain/model"
)

// IScheduledPost persists publish intents and enforces the status state
// machine at the storage boundary.
type IScheduledPost interface {
	Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error)
	GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error)

	// List returns the user's posts ordered by scheduled_for ascending,
	// optionally filtered by status, with the total row count.
	List(ctx context.Context, userID string, status *model.PostStatus, page, limit int) ([]*model.ScheduledPost, int64, error)

	// TryTransition atomically moves the record from one of the given
	// statuses to next, clearing failure_reason. Returns false without error
	// when the record was not in any of the from statuses (CAS loser).
	TryTransition(ctx context.Context, id int64, from []model.PostStatus, next model.PostStatus) (bool, error)

	// MarkPublished / MarkDraft / MarkFailed perform the terminal write of an
	// attempt. Exactly one of them follows every PROCESSING transition.
	MarkPublished(ctx context.Context, id int64, postURL, platformPostID string) error
	MarkDraft(ctx context.Context, id int64, postURL string) error
	MarkFailed(ctx context.Context, id int64, reason string) error

	// ListDue returns SCHEDULED posts whose scheduled_for is at or before now.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*model.ScheduledPost, error)
}
