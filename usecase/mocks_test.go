package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"clipcast/domain/model"
	"clipcast/domain/repository"
)

type mockSocialAccountRepo struct{ mock.Mock }

func (m *mockSocialAccountRepo) Upsert(ctx context.Context, acc *model.SocialAccount) (*model.SocialAccount, error) {
	args := m.Called(ctx, acc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SocialAccount), args.Error(1)
}

func (m *mockSocialAccountRepo) GetByID(ctx context.Context, id int64) (*model.SocialAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SocialAccount), args.Error(1)
}

func (m *mockSocialAccountRepo) List(ctx context.Context, userID string) ([]*model.SocialAccountSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SocialAccountSummary), args.Error(1)
}

func (m *mockSocialAccountRepo) UpdateTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt *time.Time) error {
	return m.Called(ctx, id, accessToken, refreshToken, expiresAt).Error(0)
}

func (m *mockSocialAccountRepo) Deactivate(ctx context.Context, id int64, requestingUserID string) error {
	return m.Called(ctx, id, requestingUserID).Error(0)
}

type mockScheduledPostRepo struct{ mock.Mock }

func (m *mockScheduledPostRepo) Create(ctx context.Context, post *model.ScheduledPost) (*model.ScheduledPost, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledPost), args.Error(1)
}

func (m *mockScheduledPostRepo) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledPost), args.Error(1)
}

func (m *mockScheduledPostRepo) List(ctx context.Context, userID string, status *model.PostStatus, page, limit int) ([]*model.ScheduledPost, int64, error) {
	args := m.Called(ctx, userID, status, page, limit)
	var posts []*model.ScheduledPost
	if args.Get(0) != nil {
		posts = args.Get(0).([]*model.ScheduledPost)
	}
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *mockScheduledPostRepo) TryTransition(ctx context.Context, id int64, from []model.PostStatus, next model.PostStatus) (bool, error) {
	args := m.Called(ctx, id, from, next)
	return args.Bool(0), args.Error(1)
}

func (m *mockScheduledPostRepo) MarkPublished(ctx context.Context, id int64, postURL, platformPostID string) error {
	return m.Called(ctx, id, postURL, platformPostID).Error(0)
}

func (m *mockScheduledPostRepo) MarkDraft(ctx context.Context, id int64, postURL string) error {
	return m.Called(ctx, id, postURL).Error(0)
}

func (m *mockScheduledPostRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockScheduledPostRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

type mockVideoRepo struct{ mock.Mock }

func (m *mockVideoRepo) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Video), args.Error(1)
}

type mockSettingsRepo struct{ mock.Mock }

func (m *mockSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockSettingsRepo) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockSettingsRepo) Bootstrap(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

type mockIntegration struct{ mock.Mock }

func (m *mockIntegration) Profile() model.PlatformProfile {
	return m.Called().Get(0).(model.PlatformProfile)
}

func (m *mockIntegration) Exchange(ctx context.Context, creds model.ClientCredentials, code, redirectURI, codeVerifier string) (*model.TokenResult, error) {
	args := m.Called(ctx, creds, code, redirectURI, codeVerifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenResult), args.Error(1)
}

func (m *mockIntegration) Refresh(ctx context.Context, creds model.ClientCredentials, refreshToken string) (*model.TokenResult, error) {
	args := m.Called(ctx, creds, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenResult), args.Error(1)
}

func (m *mockIntegration) Publish(ctx context.Context, req *repository.UploadRequest) (*model.PublishResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PublishResult), args.Error(1)
}

// staticRegistry serves the same integration for every platform.
type staticRegistry struct {
	integration repository.IPlatformIntegration
}

func (r staticRegistry) Get(p model.Platform) (repository.IPlatformIntegration, error) {
	if r.integration == nil {
		return nil, model.NewPublishErrorf(model.ErrKindNotSupported, "platform %s is not supported", p)
	}
	return r.integration, nil
}
