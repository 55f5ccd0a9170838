package usecase

import (
	"clipcast/domain/model"
	"clipcast/domain/repository"
)

// IntegrationRegistry resolves a platform to its integration. Satisfied by
// platform.Registry.
type IntegrationRegistry interface {
	Get(p model.Platform) (repository.IPlatformIntegration, error)
}
