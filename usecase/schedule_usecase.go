package usecase

import (
	"context"
	"sync"
	"time"

	"clipcast/domain/dto"
	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
)

// ScheduleUsecase owns the scheduled-post lifecycle: creation, listing,
// retry dispatch and processing of due posts. The persisted status is the
// single source of truth; every state change goes through the repository's
// compare-and-swap transition.
type ScheduleUsecase struct {
	posts     repository.IScheduledPost
	publisher *PublishUsecase

	// attemptTimeout bounds one background publish attempt.
	attemptTimeout time.Duration
	inflight       sync.WaitGroup
}

func NewScheduleUsecase(posts repository.IScheduledPost, publisher *PublishUsecase, attemptTimeout time.Duration) *ScheduleUsecase {
	if attemptTimeout <= 0 {
		attemptTimeout = 5 * time.Minute
	}
	return &ScheduleUsecase{posts: posts, publisher: publisher, attemptTimeout: attemptTimeout}
}

// Create validates and persists a future publish intent with status SCHEDULED.
func (u *ScheduleUsecase) Create(ctx context.Context, userID string, req *dto.ScheduleRequest) (*model.ScheduledPost, error) {
	if !req.ScheduledFor.After(time.Now()) {
		return nil, model.NewPublishError(model.ErrKindValidation, "scheduledFor must be in the future")
	}
	if err := u.publisher.ValidateTarget(ctx, userID, req.SocialAccountID, req.VideoID); err != nil {
		return nil, err
	}
	return u.posts.Create(ctx, &model.ScheduledPost{
		UserID:          userID,
		SocialAccountID: req.SocialAccountID,
		VideoID:         req.VideoID,
		Caption:         req.Caption,
		Hashtags:        req.Hashtags,
		ScheduledFor:    req.ScheduledFor.UTC(),
		Status:          model.PostStatusScheduled,
	})
}

// List returns the caller's posts ordered by scheduledFor ascending.
func (u *ScheduleUsecase) List(ctx context.Context, userID string, status *model.PostStatus, page, limit int) (*dto.ScheduleListResponse, error) {
	posts, total, err := u.posts.List(ctx, userID, status, page, limit)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if posts == nil {
		posts = []*model.ScheduledPost{}
	}
	return &dto.ScheduleListResponse{Posts: posts, Page: page, Limit: limit, Total: total}, nil
}

// Retry dispatches a new attempt for a FAILED post and returns immediately;
// the attempt runs detached and always ends in a terminal status write. The
// compare-and-swap claim makes concurrent retries of the same record safe:
// only one wins.
func (u *ScheduleUsecase) Retry(ctx context.Context, userID string, postID int64) (*dto.RetryResponse, error) {
	post, err := u.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, model.NewPublishError(model.ErrKindForbidden, "post does not belong to requesting user")
	}
	if post.Status != model.PostStatusFailed {
		return nil, model.NewPublishErrorf(model.ErrKindConflict, "only failed posts can be retried, this one is %s", post.Status)
	}

	claimed, err := u.posts.TryTransition(ctx, post.ID, []model.PostStatus{model.PostStatusFailed}, model.PostStatusProcessing)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, model.NewPublishError(model.ErrKindConflict, "another retry is already in progress")
	}

	u.dispatch(post)
	return &dto.RetryResponse{Success: true, Message: "retry initiated"}, nil
}

// ProcessDue claims and publishes posts whose scheduled time has passed.
// Scheduled execution is driven on demand, not by an internal cron.
func (u *ScheduleUsecase) ProcessDue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 20
	}
	due, err := u.posts.ListDue(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}
	claimed := 0
	for _, post := range due {
		ok, err := u.posts.TryTransition(ctx, post.ID, []model.PostStatus{model.PostStatusScheduled}, model.PostStatusProcessing)
		if err != nil {
			logger.GetLogger().WithField("error", err).WithField("post_id", post.ID).Error("could not claim due post")
			continue
		}
		if !ok {
			continue
		}
		claimed++
		u.dispatch(post)
	}
	return claimed, nil
}

// dispatch runs one attempt detached from the originating request. The
// request context is deliberately not inherited: the caller has already been
// answered, and a canceled request must not abort the terminal write.
func (u *ScheduleUsecase) dispatch(post *model.ScheduledPost) {
	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.GetLogger().WithField("panic", r).WithField("post_id", post.ID).
					Error("publish attempt panicked")
				if err := u.posts.MarkFailed(context.Background(), post.ID, "internal error during publish"); err != nil {
					logger.GetLogger().WithField("error", err).Error("terminal write failed after panic")
				}
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), u.attemptTimeout)
		defer cancel()
		u.publisher.AttemptForRecord(ctx, post)
	}()
}

// Wait blocks until in-flight attempts finish or the timeout passes; used
// during shutdown so detached attempts still reach their terminal write.
func (u *ScheduleUsecase) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		u.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
