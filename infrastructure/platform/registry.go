// Package platform holds the closed set of social-platform integrations.
// Each platform carries its own OAuth profile, token-exchange shaping and
// upload strategy behind repository.IPlatformIntegration; adding a platform
// means adding one variant here.
package platform

import (
	"time"

	"clipcast/domain/model"
	"clipcast/domain/repository"
)

// Options tunes the integrations built by NewRegistry.
type Options struct {
	// StatusTimeout bounds token-endpoint and status-style calls.
	StatusTimeout time.Duration
	// UploadTimeout bounds binary upload calls.
	UploadTimeout time.Duration
	// SimulationEnabled lets platforms without a real integration synthesize
	// labeled fake publish results instead of failing.
	SimulationEnabled bool
}

func (o Options) withDefaults() Options {
	if o.StatusTimeout <= 0 {
		o.StatusTimeout = 10 * time.Second
	}
	if o.UploadTimeout <= 0 {
		o.UploadTimeout = 120 * time.Second
	}
	return o
}

// Registry resolves a platform to its integration.
type Registry struct {
	integrations map[model.Platform]repository.IPlatformIntegration
}

func NewRegistry(opts Options) *Registry {
	opts = opts.withDefaults()
	r := &Registry{integrations: map[model.Platform]repository.IPlatformIntegration{}}
	r.register(NewYouTubeIntegration(opts))
	r.register(NewTikTokIntegration(opts))
	for _, p := range []model.Platform{model.PlatformInstagram, model.PlatformFacebook, model.PlatformTwitter} {
		r.register(NewSimulatedIntegration(p, opts))
	}
	return r
}

func (r *Registry) register(i repository.IPlatformIntegration) {
	r.integrations[i.Profile().Platform] = i
}

// Get returns the integration for a platform or a not-supported error.
func (r *Registry) Get(p model.Platform) (repository.IPlatformIntegration, error) {
	i, ok := r.integrations[p]
	if !ok {
		return nil, model.NewPublishErrorf(model.ErrKindNotSupported, "platform %s is not supported", p)
	}
	return i, nil
}
