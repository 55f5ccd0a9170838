package platform

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"clipcast/domain/model"
	"clipcast/domain/repository"
	"clipcast/infrastructure/logger"
)

var _ repository.IPlatformIntegration = (*SimulatedIntegration)(nil)

// SimulatedIntegration stands in for platforms without a real upload
// integration. The OAuth side is real (standard authorization-code flow);
// publishing synthesizes a deterministic result that is always labeled as
// simulated, or fails outright when simulation mode is off.
type SimulatedIntegration struct {
	exchanger
	enabled bool
}

func NewSimulatedIntegration(p model.Platform, opts Options) *SimulatedIntegration {
	return &SimulatedIntegration{
		exchanger: exchanger{
			profile: simulatedProfile(p),
			tokens:  newTokenClient(opts.StatusTimeout),
		},
		enabled: opts.SimulationEnabled,
	}
}

func simulatedProfile(p model.Platform) model.PlatformProfile {
	switch p {
	case model.PlatformInstagram:
		return model.PlatformProfile{
			Platform: p,
			AuthURL:  "https://api.instagram.com/oauth/authorize",
			TokenURL: "https://api.instagram.com/oauth/access_token",
			Scopes:   []string{"instagram_business_basic", "instagram_business_content_publish"},
		}
	case model.PlatformFacebook:
		return model.PlatformProfile{
			Platform: p,
			AuthURL:  "https://www.facebook.com/v18.0/dialog/oauth",
			TokenURL: "https://graph.facebook.com/v18.0/oauth/access_token",
			Scopes:   []string{"pages_manage_posts", "pages_read_engagement"},
		}
	default:
		return model.PlatformProfile{
			Platform:          p,
			AuthURL:           "https://twitter.com/i/oauth2/authorize",
			TokenURL:          "https://api.twitter.com/2/oauth2/token",
			Scopes:            []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
			RequiresPKCE:      true,
			ChallengeEncoding: model.ChallengeS256,
		}
	}
}

func (s *SimulatedIntegration) Publish(ctx context.Context, req *repository.UploadRequest) (*model.PublishResult, error) {
	if !s.enabled {
		return nil, model.NewPublishErrorf(model.ErrKindNotSupported,
			"publishing to %s is not implemented", s.profile.Platform)
	}
	if _, err := os.Stat(req.Video.FilePath); err != nil {
		return nil, model.NewPublishError(model.ErrKindContentNotFound, "video file not found").WithDetail(err.Error())
	}

	// Deterministic fake id so repeated simulations of the same intent agree.
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", s.profile.Platform, req.Account.ID, req.Video.ID)))
	postID := hex.EncodeToString(sum[:8])

	logger.GetLogger().
		WithField("platform", s.profile.Platform).
		WithField("post_id", postID).
		Info("synthesized simulated publish result")

	return &model.PublishResult{
		PostURL:          fmt.Sprintf("https://%s.example.com/posts/%s", s.profile.Platform, postID),
		PlatformPostID:   postID,
		PublishType:      model.PublishTypeSimulated,
		Simulated:        true,
		SimulationReason: fmt.Sprintf("no real %s integration, simulation mode is enabled", s.profile.Platform),
	}, nil
}
