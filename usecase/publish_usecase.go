package usecase

import (
	"context"
	"os"
	"time"

	"clipcast/domain/dto"
	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
	"clipcast/infrastructure/realtime"
)

// terminalWriteTimeout bounds the status write that closes out a background
// attempt. It is independent of the attempt's own context: an expired attempt
// must still be able to record its failure.
const terminalWriteTimeout = 10 * time.Second

// PublishUsecase is the publish dispatcher: it validates the target account
// and content, ensures a fresh token, drives the platform upload strategy
// and persists exactly one record describing the outcome of every attempt.
type PublishUsecase struct {
	accounts  repository.ISocialAccount
	videos    repository.IVideo
	posts     repository.IScheduledPost
	registry  IntegrationRegistry
	refresher *TokenRefresher
	hub       *realtime.Hub
}

func NewPublishUsecase(
	accounts repository.ISocialAccount,
	videos repository.IVideo,
	posts repository.IScheduledPost,
	registry IntegrationRegistry,
	refresher *TokenRefresher,
	hub *realtime.Hub,
) *PublishUsecase {
	return &PublishUsecase{
		accounts:  accounts,
		videos:    videos,
		posts:     posts,
		registry:  registry,
		refresher: refresher,
		hub:       hub,
	}
}

// PublishNow performs an immediate publish. The record is created after the
// attempt with a terminal status directly, bypassing SCHEDULED. A request
// refused before anything is attempted — preflight failures (bad account,
// missing content, unrefreshable token) and the inbox-limit check — returns
// a plain error with no record, because no attempt took place; once the
// upload strategy runs, exactly one record is written, FAILED on any
// strategy error.
func (u *PublishUsecase) PublishNow(ctx context.Context, userID string, req *dto.PublishRequest) (*dto.PublishResponse, error) {
	account, video, err := u.preflight(ctx, userID, req.SocialAccountID, req.VideoID)
	if err != nil {
		return nil, err
	}

	result, attemptErr := u.attempt(ctx, account, video, req.Caption, req.Hashtags, req.PublishMode, req.PlatformOptions)
	if attemptErr != nil && model.KindOf(attemptErr) == model.ErrKindInboxLimit {
		// Refused before any upload happened; nothing to record.
		return nil, attemptErr
	}

	post := &model.ScheduledPost{
		UserID:          userID,
		SocialAccountID: account.ID,
		VideoID:         video.ID,
		Caption:         req.Caption,
		Hashtags:        req.Hashtags,
		ScheduledFor:    time.Now().UTC(),
	}
	applyOutcome(post, result, attemptErr)

	stored, err := u.posts.Create(ctx, post)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("could not persist publish outcome")
		return nil, err
	}
	u.hub.BroadcastPostStatus(stored)

	if attemptErr != nil {
		return nil, attemptErr
	}
	return &dto.PublishResponse{
		Success:     true,
		PostURL:     result.PostURL,
		PublishType: result.PublishType,
		Post:        stored,
	}, nil
}

// AttemptForRecord runs a publish attempt for an existing record already in
// PROCESSING and always finishes with a terminal write, whatever fails
// inside. Retries and due scheduled posts go through here.
func (u *PublishUsecase) AttemptForRecord(ctx context.Context, post *model.ScheduledPost) {
	var result *model.PublishResult
	account, video, err := u.preflight(ctx, post.UserID, post.SocialAccountID, post.VideoID)
	if err == nil {
		result, err = u.attempt(ctx, account, video, post.Caption, post.Hashtags, "", nil)
	}

	// The attempt context may be the very thing that failed (a slow platform
	// hitting the attempt deadline), so the terminal write runs on its own
	// bounded context or the record would be stuck in PROCESSING.
	writeCtx, cancel := context.WithTimeout(context.Background(), terminalWriteTimeout)
	defer cancel()

	if err != nil {
		reason := model.AsPublishError(err).Message
		if markErr := u.posts.MarkFailed(writeCtx, post.ID, reason); markErr != nil {
			logger.GetLogger().WithField("error", markErr).WithField("post_id", post.ID).
				Error("terminal write failed after publish error")
			return
		}
		post.Status = model.PostStatusFailed
		post.FailureReason = &reason
		u.hub.BroadcastPostStatus(post)
		return
	}

	if result.PublishType == model.PublishTypeInbox {
		if markErr := u.posts.MarkDraft(writeCtx, post.ID, result.PostURL); markErr != nil {
			logger.GetLogger().WithField("error", markErr).WithField("post_id", post.ID).
				Error("terminal write failed after inbox upload")
			return
		}
		post.Status = model.PostStatusDraft
	} else {
		if markErr := u.posts.MarkPublished(writeCtx, post.ID, result.PostURL, result.PlatformPostID); markErr != nil {
			logger.GetLogger().WithField("error", markErr).WithField("post_id", post.ID).
				Error("terminal write failed after publish")
			return
		}
		post.Status = model.PostStatusPublished
	}
	if result.PostURL != "" {
		post.PostURL = &result.PostURL
	}
	u.hub.BroadcastPostStatus(post)
}

// ValidateTarget checks that the account and video exist, belong to the user
// and the video file is present. Used by the scheduling API at creation time.
func (u *PublishUsecase) ValidateTarget(ctx context.Context, userID string, accountID, videoID int64) error {
	_, _, err := u.loadTarget(ctx, userID, accountID, videoID)
	return err
}

func (u *PublishUsecase) loadTarget(ctx context.Context, userID string, accountID, videoID int64) (*model.SocialAccount, *model.Video, error) {
	account, err := u.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if account.UserID != userID {
		return nil, nil, model.NewPublishError(model.ErrKindForbidden, "account does not belong to requesting user")
	}

	video, err := u.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}
	if video.UserID != userID {
		return nil, nil, model.NewPublishError(model.ErrKindForbidden, "video does not belong to requesting user")
	}
	return account, video, nil
}

func (u *PublishUsecase) preflight(ctx context.Context, userID string, accountID, videoID int64) (*model.SocialAccount, *model.Video, error) {
	account, video, err := u.loadTarget(ctx, userID, accountID, videoID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(video.FilePath); err != nil {
		return nil, nil, model.NewPublishError(model.ErrKindContentNotFound, "video file not found").WithDetail(err.Error())
	}

	account, err = u.refresher.EnsureFreshAccount(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, video, nil
}

func (u *PublishUsecase) attempt(ctx context.Context, account *model.SocialAccount, video *model.Video, caption string, hashtags []string, mode string, options map[string]string) (*model.PublishResult, error) {
	integration, err := u.registry.Get(account.Platform)
	if err != nil {
		return nil, err
	}
	return integration.Publish(ctx, &repository.UploadRequest{
		Account:  account,
		Video:    video,
		Caption:  caption,
		Hashtags: hashtags,
		Mode:     mode,
		Options:  options,
	})
}

func applyOutcome(post *model.ScheduledPost, result *model.PublishResult, attemptErr error) {
	if attemptErr != nil {
		reason := model.AsPublishError(attemptErr).Message
		post.Status = model.PostStatusFailed
		post.FailureReason = &reason
		return
	}
	switch result.PublishType {
	case model.PublishTypeInbox:
		post.Status = model.PostStatusDraft
	default:
		post.Status = model.PostStatusPublished
	}
	if result.PostURL != "" {
		post.PostURL = &result.PostURL
	}
	if result.PlatformPostID != "" {
		post.PlatformPostID = &result.PlatformPostID
	}
}
