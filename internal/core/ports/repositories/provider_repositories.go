package repositories

import (
	"context"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// ProviderReader defines read operations for provider configuration
type ProviderReader interface {
	// FindProviderByName retrieves a provider by its unique name.
	FindProviderByName(ctx context.Context, name string) (*domain.Provider, error)
	// ListProviders retrieves all configured providers ordered by priority then name.
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	// ListEnabledProviders retrieves enabled providers ordered by priority
	// ascending, ties broken by name ascending. This is the ordering the
	// resolver walks.
	ListEnabledProviders(ctx context.Context) ([]domain.Provider, error)
}

// ProviderWriter defines write operations for provider configuration
type ProviderWriter interface {
	// SaveProvider persists a new provider.
	SaveProvider(ctx context.Context, provider domain.Provider) error
	// UpdateProvider updates priority, enabled flag and config of an existing provider.
	UpdateProvider(ctx context.Context, provider domain.Provider) error
}

// ProviderRepository combines all provider-related repository interfaces
type ProviderRepository interface {
	ProviderReader
	ProviderWriter
}
