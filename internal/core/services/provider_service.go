package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// ProviderService manages the provider registry: the ordered catalogue of
// configured rate source adapters the resolver walks.
type ProviderService struct {
	providerRepo portsrepo.ProviderRepository
}

// NewProviderService creates a new ProviderService.
func NewProviderService(providerRepo portsrepo.ProviderRepository) *ProviderService {
	return &ProviderService{providerRepo: providerRepo}
}

// CreateProvider registers a new rate provider. The adapter key must map to
// a registered ratesource adapter, and the config must be sufficient to
// instantiate it.
func (s *ProviderService) CreateProvider(ctx context.Context, req dto.CreateProviderRequest) (*domain.Provider, error) {
	if !ratesource.Known(req.AdapterKey) {
		return nil, fmt.Errorf("%w: unknown adapter %q, registered adapters: %v",
			apperrors.ErrValidation, req.AdapterKey, ratesource.Keys())
	}
	// Fail early on unusable config rather than at first resolution.
	if _, err := ratesource.New(req.AdapterKey, req.Config); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now()
	provider := domain.Provider{
		ProviderID: uuid.NewString(),
		Name:       req.Name,
		AdapterKey: req.AdapterKey,
		Priority:   req.Priority,
		Enabled:    req.Enabled,
		Config:     req.Config,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.providerRepo.SaveProvider(ctx, provider); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: provider %q already exists", apperrors.ErrDuplicate, provider.Name)
		}
		return nil, fmt.Errorf("failed to create provider in service: %w", err)
	}

	return &provider, nil
}

// UpdateProvider updates priority, enabled flag and config of a provider.
func (s *ProviderService) UpdateProvider(ctx context.Context, name string, req dto.UpdateProviderRequest) (*domain.Provider, error) {
	provider, err := s.providerRepo.FindProviderByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get provider %q: %w", name, err)
	}

	if req.Priority != nil {
		provider.Priority = *req.Priority
	}
	if req.Enabled != nil {
		provider.Enabled = *req.Enabled
	}
	if req.Config != nil {
		if _, err := ratesource.New(provider.AdapterKey, req.Config); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		provider.Config = req.Config
	}
	provider.LastUpdatedAt = time.Now()

	if err := s.providerRepo.UpdateProvider(ctx, *provider); err != nil {
		return nil, fmt.Errorf("failed to update provider %q: %w", name, err)
	}
	return provider, nil
}

// ListProviders retrieves all configured providers.
func (s *ProviderService) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	providers, err := s.providerRepo.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers in service: %w", err)
	}
	if providers == nil {
		return []domain.Provider{}, nil
	}
	return providers, nil
}

// OrderedEnabledProviders returns the enabled providers sorted by priority
// ascending, ties broken by name. The slice is a point-in-time snapshot: a
// resolution holds it for its whole duration so configuration edits cannot
// reorder an in-flight fallback walk.
func (s *ProviderService) OrderedEnabledProviders(ctx context.Context) ([]domain.Provider, error) {
	providers, err := s.providerRepo.ListEnabledProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled providers: %w", err)
	}
	return providers, nil
}

// GetEnabledProviderByName retrieves one enabled provider for pinned
// resolutions.
func (s *ProviderService) GetEnabledProviderByName(ctx context.Context, name string) (*domain.Provider, error) {
	provider, err := s.providerRepo.FindProviderByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !provider.Enabled {
		return nil, fmt.Errorf("%w: provider %q is disabled", apperrors.ErrNotFound, name)
	}
	return provider, nil
}
