package platform

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
)

var _ repository.IPlatformIntegration = (*YouTubeIntegration)(nil)

// YouTubeIntegration publishes through the YouTube Data API. Direct posting
// is a two-step sequence: upload the binary as a private video, then flip it
// public with an explicit update. Both steps must succeed.
type YouTubeIntegration struct {
	exchanger

	// serviceOptions are appended when building the API service; tests inject
	// option.WithEndpoint and a plain HTTP client here.
	serviceOptions []option.ClientOption
}

func NewYouTubeIntegration(opts Options) *YouTubeIntegration {
	return &YouTubeIntegration{
		exchanger: exchanger{
			profile: model.PlatformProfile{
				Platform: model.PlatformYouTube,
				AuthURL:  google.Endpoint.AuthURL,
				TokenURL: google.Endpoint.TokenURL,
				Scopes: []string{
					youtube.YoutubeUploadScope,
					youtube.YoutubeScope,
				},
				ExtraAuthParams: map[string]string{
					"access_type": "offline",
					"prompt":      "consent",
				},
			},
			tokens: newTokenClient(opts.StatusTimeout),
		},
	}
}

func (y *YouTubeIntegration) Publish(ctx context.Context, req *repository.UploadRequest) (*model.PublishResult, error) {
	file, err := os.Open(req.Video.FilePath)
	if err != nil {
		return nil, model.NewPublishError(model.ErrKindContentNotFound, "video file not found").WithDetail(err.Error())
	}
	defer file.Close()

	service, err := y.newService(ctx, req.Account.AccessToken)
	if err != nil {
		return nil, model.NewPublishError(model.ErrKindUnknown, "could not reach the video service").WithDetail(err.Error())
	}

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Caption,
			Description: req.Caption,
			Tags:        req.Hashtags,
			CategoryId:  req.Options["categoryId"],
		},
		Status: &youtube.VideoStatus{PrivacyStatus: "private"},
	}
	if upload.Snippet.Title == "" {
		upload.Snippet.Title = req.Video.Title
	}

	inserted, err := service.Videos.Insert([]string{"snippet", "status"}, upload).Media(file).Context(ctx).Do()
	if err != nil {
		return nil, classifyYouTubeError(err)
	}

	// The binary is on the platform now; making it public must also succeed
	// or the whole attempt is reported failed.
	inserted.Status.PrivacyStatus = "public"
	if _, err := service.Videos.Update([]string{"status"}, &youtube.Video{
		Id:     inserted.Id,
		Status: inserted.Status,
	}).Context(ctx).Do(); err != nil {
		logger.GetLogger().WithField("video_id", inserted.Id).Error("uploaded video could not be made public")
		return nil, classifyYouTubeError(err)
	}

	return &model.PublishResult{
		PostURL:        fmt.Sprintf("https://www.youtube.com/watch?v=%s", inserted.Id),
		PlatformPostID: inserted.Id,
		PublishType:    model.PublishTypeDirect,
	}, nil
}

func (y *YouTubeIntegration) newService(ctx context.Context, accessToken string) (*youtube.Service, error) {
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}
	opts = append(opts, y.serviceOptions...)
	return youtube.NewService(ctx, opts...)
}

func classifyYouTubeError(err error) *model.PublishError {
	if apiErr, ok := err.(*googleapi.Error); ok {
		code := ""
		if len(apiErr.Errors) > 0 {
			code = apiErr.Errors[0].Reason
		}
		return classifyUploadError(apiErr.Code, code, apiErr.Message, err)
	}
	return classifyUploadError(0, "", err.Error(), err)
}
