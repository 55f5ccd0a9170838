package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clipcast/domain/dto"
	"clipcast/domain/model"
)

type scheduleFixture struct {
	*publishFixture
	uc *ScheduleUsecase
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	pf := newPublishFixture(t)
	return &scheduleFixture{
		publishFixture: pf,
		uc:             NewScheduleUsecase(pf.posts, pf.uc, time.Minute),
	}
}

func scheduleReq(scheduledFor time.Time) *dto.ScheduleRequest {
	return &dto.ScheduleRequest{SocialAccountID: 5, VideoID: 9, Caption: "later", ScheduledFor: scheduledFor}
}

func TestScheduleCreate_PastTimeRejectedWithoutRecord(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.uc.Create(context.Background(), "user-1", scheduleReq(time.Now().Add(-time.Second)))
	require.Error(t, err)
	require.Equal(t, model.ErrKindValidation, model.KindOf(err))
	f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestScheduleCreate_FutureTimeCreatesScheduledRecord(t *testing.T) {
	f := newScheduleFixture(t)
	f.withAccount(true)
	f.withVideoFile(t)
	f.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *model.ScheduledPost) bool {
		return p.Status == model.PostStatusScheduled && p.UserID == "user-1"
	})).Return(&model.ScheduledPost{ID: 11, Status: model.PostStatusScheduled}, nil)

	post, err := f.uc.Create(context.Background(), "user-1", scheduleReq(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.Equal(t, model.PostStatusScheduled, post.Status)
	f.posts.AssertExpectations(t)
}

func TestScheduleRetry_OnlyFailedPostsAreRetryable(t *testing.T) {
	f := newScheduleFixture(t)
	f.posts.On("GetByID", mock.Anything, int64(11)).
		Return(&model.ScheduledPost{ID: 11, UserID: "user-1", Status: model.PostStatusScheduled}, nil)

	_, err := f.uc.Retry(context.Background(), "user-1", 11)
	require.Error(t, err)
	require.Equal(t, model.ErrKindConflict, model.KindOf(err))
	f.posts.AssertNotCalled(t, "TryTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleRetry_ForeignPostIsForbidden(t *testing.T) {
	f := newScheduleFixture(t)
	f.posts.On("GetByID", mock.Anything, int64(11)).
		Return(&model.ScheduledPost{ID: 11, UserID: "someone-else", Status: model.PostStatusFailed}, nil)

	_, err := f.uc.Retry(context.Background(), "user-1", 11)
	require.Error(t, err)
	require.Equal(t, model.ErrKindForbidden, model.KindOf(err))
}

func TestScheduleRetry_ConcurrentRetryLosesClaim(t *testing.T) {
	f := newScheduleFixture(t)
	f.posts.On("GetByID", mock.Anything, int64(11)).
		Return(&model.ScheduledPost{ID: 11, UserID: "user-1", Status: model.PostStatusFailed}, nil)
	f.posts.On("TryTransition", mock.Anything, int64(11),
		[]model.PostStatus{model.PostStatusFailed}, model.PostStatusProcessing).Return(false, nil)

	_, err := f.uc.Retry(context.Background(), "user-1", 11)
	require.Error(t, err)
	require.Equal(t, model.ErrKindConflict, model.KindOf(err))
}

func TestScheduleRetry_ReturnsImmediatelyAndStillReachesTerminalState(t *testing.T) {
	f := newScheduleFixture(t)
	f.withAccount(true)
	// The video file vanished since the original failure; the background
	// attempt must still end in FAILED, never stuck in PROCESSING.
	f.videos.On("GetByID", mock.Anything, int64(9)).
		Return(&model.Video{ID: 9, UserID: "user-1", FilePath: "/deleted/clip.mp4"}, nil)
	f.posts.On("GetByID", mock.Anything, int64(11)).
		Return(&model.ScheduledPost{ID: 11, UserID: "user-1", SocialAccountID: 5, VideoID: 9, Status: model.PostStatusFailed}, nil)
	f.posts.On("TryTransition", mock.Anything, int64(11),
		[]model.PostStatus{model.PostStatusFailed}, model.PostStatusProcessing).Return(true, nil)
	f.posts.On("MarkFailed", mock.Anything, int64(11), "video file not found").Return(nil)

	resp, err := f.uc.Retry(context.Background(), "user-1", 11)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "retry initiated", resp.Message)

	require.True(t, f.uc.Wait(5*time.Second), "background attempt did not finish")
	f.posts.AssertExpectations(t)
}

func TestProcessDue_ClaimsAndPublishes(t *testing.T) {
	f := newScheduleFixture(t)
	f.withAccount(true)
	f.withVideoFile(t)
	due := &model.ScheduledPost{ID: 11, UserID: "user-1", SocialAccountID: 5, VideoID: 9, Status: model.PostStatusScheduled}
	f.posts.On("ListDue", mock.Anything, mock.Anything, 20).Return([]*model.ScheduledPost{due}, nil)
	f.posts.On("TryTransition", mock.Anything, int64(11),
		[]model.PostStatus{model.PostStatusScheduled}, model.PostStatusProcessing).Return(true, nil)
	f.integration.On("Publish", mock.Anything, mock.Anything).
		Return(&model.PublishResult{PostURL: "https://yt/watch?v=a", PlatformPostID: "a", PublishType: model.PublishTypeDirect}, nil)
	f.posts.On("MarkPublished", mock.Anything, int64(11), "https://yt/watch?v=a", "a").Return(nil)

	claimed, err := f.uc.ProcessDue(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, claimed)

	require.True(t, f.uc.Wait(5*time.Second))
	f.posts.AssertExpectations(t)
}

func TestScheduleList_DefaultsPagination(t *testing.T) {
	f := newScheduleFixture(t)
	f.posts.On("List", mock.Anything, "user-1", (*model.PostStatus)(nil), 0, 0).
		Return([]*model.ScheduledPost{}, int64(0), nil)

	resp, err := f.uc.List(context.Background(), "user-1", nil, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Page)
	require.Equal(t, 20, resp.Limit)
	require.NotNil(t, resp.Posts)
}
