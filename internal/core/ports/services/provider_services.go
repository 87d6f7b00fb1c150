package services

import (
	"context"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/dto"
)

// ProviderRegistrySvc exposes the ordered view of enabled providers the
// resolver walks. The returned slice is a snapshot: concurrent configuration
// edits never affect a resolution already in flight.
type ProviderRegistrySvc interface {
	OrderedEnabledProviders(ctx context.Context) ([]domain.Provider, error)

	// GetEnabledProviderByName retrieves one enabled provider for pinned
	// resolutions. Returns apperrors.ErrNotFound when absent or disabled.
	GetEnabledProviderByName(ctx context.Context, name string) (*domain.Provider, error)
}

// ProviderAdminSvc defines the admin CRUD seam for provider configuration.
type ProviderAdminSvc interface {
	CreateProvider(ctx context.Context, req dto.CreateProviderRequest) (*domain.Provider, error)
	UpdateProvider(ctx context.Context, name string, req dto.UpdateProviderRequest) (*domain.Provider, error)
	ListProviders(ctx context.Context) ([]domain.Provider, error)
}

// ProviderSvcFacade combines all provider-related service interfaces
type ProviderSvcFacade interface {
	ProviderRegistrySvc
	ProviderAdminSvc
}
