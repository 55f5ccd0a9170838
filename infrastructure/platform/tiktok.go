package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
)

var _ repository.IPlatformIntegration = (*TikTokIntegration)(nil)

const tiktokAPIBase = "https://open.tiktokapis.com"

// TikTokIntegration publishes through the TikTok content-posting API. It is
// the platform with the most wire quirks: the client identifier is sent as
// client_key, the token payload is nested under "data", PKCE is mandatory
// and the code challenge is hex-encoded. Two upload strategies exist: direct
// post and the inbox, where the user completes publishing in the TikTok app.
type TikTokIntegration struct {
	exchanger

	// baseURL overrides the API host (tests).
	baseURL      string
	statusClient *http.Client
	uploadClient *http.Client
}

func NewTikTokIntegration(opts Options) *TikTokIntegration {
	return &TikTokIntegration{
		exchanger: exchanger{
			profile: model.PlatformProfile{
				Platform:          model.PlatformTikTok,
				AuthURL:           "https://www.tiktok.com/v2/auth/authorize/",
				TokenURL:          tiktokAPIBase + "/v2/oauth/token/",
				Scopes:            []string{"user.info.basic", "video.upload", "video.publish"},
				RequiresPKCE:      true,
				ChallengeEncoding: model.ChallengeS256Hex,
				ClientIDParam:     "client_key",
				SupportsInbox:     true,
			},
			tokens: newTokenClient(opts.StatusTimeout),
		},
		statusClient: &http.Client{Timeout: opts.StatusTimeout},
		uploadClient: &http.Client{Timeout: opts.UploadTimeout},
	}
}

func (t *TikTokIntegration) api(path string) string {
	base := t.baseURL
	if base == "" {
		base = tiktokAPIBase
	}
	return base + path
}

func (t *TikTokIntegration) Publish(ctx context.Context, req *repository.UploadRequest) (*model.PublishResult, error) {
	if req.Mode == "inbox" {
		return t.publishInbox(ctx, req)
	}
	return t.publishDirect(ctx, req)
}

func (t *TikTokIntegration) publishDirect(ctx context.Context, req *repository.UploadRequest) (*model.PublishResult, error) {
	init, err := t.initUpload(ctx, req, "/v2/post/publish/video/init/")
	if err != nil {
		return nil, err
	}
	if err := t.uploadBinary(ctx, init.UploadURL, req.Video); err != nil {
		// The binary may already be on the platform; the attempt is still a
		// publish failure, never a partial success.
		logger.GetLogger().WithField("publish_id", init.PublishID).Error("video binary upload failed after init")
		return nil, err
	}
	return &model.PublishResult{
		PostURL:        fmt.Sprintf("https://www.tiktok.com/video/%s", init.PublishID),
		PlatformPostID: init.PublishID,
		PublishType:    model.PublishTypeDirect,
	}, nil
}

func (t *TikTokIntegration) publishInbox(ctx context.Context, req *repository.UploadRequest) (*model.PublishResult, error) {
	pending, err := t.pendingInboxCount(ctx, req.Account.AccessToken)
	if err != nil {
		return nil, err
	}
	if pending >= model.InboxPendingLimit {
		return nil, model.NewPublishErrorf(model.ErrKindInboxLimit,
			"the TikTok inbox already holds %d unpublished videos, publish or remove some in the TikTok app first", pending)
	}

	init, err := t.initUpload(ctx, req, "/v2/post/publish/inbox/video/init/")
	if err != nil {
		return nil, err
	}
	if err := t.uploadBinary(ctx, init.UploadURL, req.Video); err != nil {
		return nil, err
	}
	return &model.PublishResult{
		PlatformPostID: init.PublishID,
		PublishType:    model.PublishTypeInbox,
	}, nil
}

type tiktokEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		LogID   string `json:"log_id"`
	} `json:"error"`
}

type tiktokInitData struct {
	PublishID string `json:"publish_id"`
	UploadURL string `json:"upload_url"`
}

func (t *TikTokIntegration) initUpload(ctx context.Context, req *repository.UploadRequest, path string) (*tiktokInitData, error) {
	info, err := os.Stat(req.Video.FilePath)
	if err != nil {
		return nil, model.NewPublishError(model.ErrKindContentNotFound, "video file not found").WithDetail(err.Error())
	}

	title := req.Caption
	if title == "" {
		title = req.Video.Title
	}
	if len(req.Hashtags) > 0 {
		title = strings.TrimSpace(title + " #" + strings.Join(req.Hashtags, " #"))
	}

	body := map[string]interface{}{
		"post_info": map[string]interface{}{
			"title":         title,
			"privacy_level": "PUBLIC_TO_EVERYONE",
		},
		"source_info": map[string]interface{}{
			"source":            "FILE_UPLOAD",
			"video_size":        info.Size(),
			"chunk_size":        info.Size(),
			"total_chunk_count": 1,
		},
	}

	var data tiktokInitData
	if err := t.postJSON(ctx, t.api(path), req.Account.AccessToken, body, &data); err != nil {
		return nil, err
	}
	if data.UploadURL == "" {
		return nil, model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail("init response carried no upload url")
	}
	return &data, nil
}

func (t *TikTokIntegration) pendingInboxCount(ctx context.Context, accessToken string) (int, error) {
	var data struct {
		PendingCount int `json:"pending_count"`
	}
	if err := t.postJSON(ctx, t.api("/v2/post/publish/inbox/video/list/"), accessToken, map[string]interface{}{}, &data); err != nil {
		return 0, err
	}
	return data.PendingCount, nil
}

func (t *TikTokIntegration) postJSON(ctx context.Context, url, accessToken string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := t.statusClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.NewPublishError(model.ErrKindUnknown, "platform did not respond in time").WithDetail(err.Error())
		}
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
	}

	var envelope tiktokEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").
			WithDetail(fmt.Sprintf("status %d: unparseable response", resp.StatusCode))
	}
	if code := envelope.Error.Code; code != "" && code != "ok" {
		return classifyUploadError(resp.StatusCode, code, envelope.Error.Message, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyUploadError(resp.StatusCode, "", string(raw), nil)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
		}
	}
	return nil
}

func (t *TikTokIntegration) uploadBinary(ctx context.Context, uploadURL string, video *model.Video) error {
	file, err := os.Open(video.FilePath)
	if err != nil {
		return model.NewPublishError(model.ErrKindContentNotFound, "video file not found").WithDetail(err.Error())
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return model.NewPublishError(model.ErrKindContentNotFound, "video file not found").WithDetail(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
	}
	req.ContentLength = info.Size()
	contentType := video.MimeType
	if contentType == "" {
		contentType = "video/mp4"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", info.Size()-1, info.Size()))

	resp, err := t.uploadClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.NewPublishError(model.ErrKindUnknown, "platform did not respond in time").WithDetail(err.Error())
		}
		return model.NewPublishError(model.ErrKindUnknown, "publish failed, retry available").WithDetail(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifyUploadError(resp.StatusCode, "", string(raw), nil)
	}
	return nil
}
