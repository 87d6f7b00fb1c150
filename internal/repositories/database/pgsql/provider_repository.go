package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	"github.com/areyesv/fx-rates-service/internal/models"
	"github.com/areyesv/fx-rates-service/internal/utils/mapping"
)

type PgxProviderRepository struct {
	BaseRepository
}

// newPgxProviderRepository creates a new repository for provider configuration.
func newPgxProviderRepository(pool *pgxpool.Pool) portsrepo.ProviderRepository {
	return &PgxProviderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ProviderRepository = (*PgxProviderRepository)(nil)

func scanProvider(row pgx.Row) (models.Provider, error) {
	var p models.Provider
	err := row.Scan(
		&p.ProviderID,
		&p.Name,
		&p.AdapterKey,
		&p.Priority,
		&p.Enabled,
		&p.Config,
		&p.CreatedAt,
		&p.LastUpdatedAt,
	)
	return p, err
}

// SaveProvider persists a new provider. Returns apperrors.ErrDuplicate when
// the name is already taken.
func (r *PgxProviderRepository) SaveProvider(ctx context.Context, provider domain.Provider) error {
	modelProv, err := mapping.ToModelProvider(provider)
	if err != nil {
		return fmt.Errorf("failed to marshal provider config: %w", err)
	}

	query := `
		INSERT INTO providers (provider_id, name, adapter_key, priority, enabled, config, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err = r.Pool.Exec(ctx, query,
		modelProv.ProviderID,
		modelProv.Name,
		modelProv.AdapterKey,
		modelProv.Priority,
		modelProv.Enabled,
		modelProv.Config,
		modelProv.CreatedAt,
		modelProv.LastUpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: provider %s already exists", apperrors.ErrDuplicate, modelProv.Name)
		}
		return fmt.Errorf("failed to save provider %s: %w", modelProv.Name, err)
	}
	return nil
}

// UpdateProvider updates priority, enabled flag and config of an existing provider.
func (r *PgxProviderRepository) UpdateProvider(ctx context.Context, provider domain.Provider) error {
	modelProv, err := mapping.ToModelProvider(provider)
	if err != nil {
		return fmt.Errorf("failed to marshal provider config: %w", err)
	}

	query := `
		UPDATE providers
		SET priority = $2, enabled = $3, config = $4, last_updated_at = $5
		WHERE provider_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelProv.ProviderID,
		modelProv.Priority,
		modelProv.Enabled,
		modelProv.Config,
		modelProv.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider %s: %w", modelProv.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindProviderByName retrieves a provider by its unique name.
func (r *PgxProviderRepository) FindProviderByName(ctx context.Context, name string) (*domain.Provider, error) {
	query := `
		SELECT provider_id, name, adapter_key, priority, enabled, config, created_at, last_updated_at
		FROM providers
		WHERE name = $1;
	`
	modelProv, err := scanProvider(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find provider by name %s: %w", name, err)
	}

	domainProv, err := mapping.ToDomainProvider(modelProv)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider config for %s: %w", name, err)
	}
	return &domainProv, nil
}

// ListProviders retrieves all configured providers ordered by priority then name.
func (r *PgxProviderRepository) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	query := `
		SELECT provider_id, name, adapter_key, priority, enabled, config, created_at, last_updated_at
		FROM providers
		ORDER BY priority, name;
	`
	return r.listProviders(ctx, query)
}

// ListEnabledProviders retrieves enabled providers in resolution order:
// priority ascending, ties broken by name ascending.
func (r *PgxProviderRepository) ListEnabledProviders(ctx context.Context) ([]domain.Provider, error) {
	query := `
		SELECT provider_id, name, adapter_key, priority, enabled, config, created_at, last_updated_at
		FROM providers
		WHERE enabled
		ORDER BY priority, name;
	`
	return r.listProviders(ctx, query)
}

func (r *PgxProviderRepository) listProviders(ctx context.Context, query string) ([]domain.Provider, error) {
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	modelProviders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Provider, error) {
		return scanProvider(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan providers: %w", err)
	}

	domainProviders := make([]domain.Provider, len(modelProviders))
	for i, m := range modelProviders {
		domainProviders[i], err = mapping.ToDomainProvider(m)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal provider config for %s: %w", m.Name, err)
		}
	}
	return domainProviders, nil
}
