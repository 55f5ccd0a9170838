package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"clipcast/domain/model"
	"clipcast/domain/repository"
)

func TestSimulated_SynthesizesLabeledResult(t *testing.T) {
	sim := NewSimulatedIntegration(model.PlatformInstagram, Options{SimulationEnabled: true})
	video := writeTempVideo(t)
	req := &repository.UploadRequest{
		Account: &model.SocialAccount{ID: 5, Platform: model.PlatformInstagram},
		Video:   video,
	}

	first, err := sim.Publish(context.Background(), req)
	require.NoError(t, err)
	require.True(t, first.Simulated)
	require.Equal(t, model.PublishTypeSimulated, first.PublishType)
	require.NotEmpty(t, first.SimulationReason)
	require.NotEmpty(t, first.PostURL)

	// Deterministic: same account and video yield the same fake id.
	second, err := sim.Publish(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first.PlatformPostID, second.PlatformPostID)
}

func TestSimulated_DisabledFailsAsNotSupported(t *testing.T) {
	sim := NewSimulatedIntegration(model.PlatformTwitter, Options{SimulationEnabled: false})
	_, err := sim.Publish(context.Background(), &repository.UploadRequest{
		Account: &model.SocialAccount{ID: 5, Platform: model.PlatformTwitter},
		Video:   writeTempVideo(t),
	})
	require.Error(t, err)
	require.Equal(t, model.ErrKindNotSupported, model.KindOf(err))
}

func TestRegistry_CoversAllPlatforms(t *testing.T) {
	reg := NewRegistry(Options{SimulationEnabled: true})
	for _, p := range model.AllPlatforms() {
		integration, err := reg.Get(p)
		require.NoError(t, err)
		require.Equal(t, p, integration.Profile().Platform)
	}
	_, err := reg.Get(model.Platform("myspace"))
	require.Error(t, err)
	require.Equal(t, model.ErrKindNotSupported, model.KindOf(err))
}
