package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	"github.com/areyesv/fx-rates-service/internal/models"
	"github.com/areyesv/fx-rates-service/internal/utils/mapping"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new repository for stored rates.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row pgx.Row) (models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := row.Scan(
		&rate.ExchangeRateID,
		&rate.SourceCurrencyCode,
		&rate.TargetCurrencyCode,
		&rate.Rate,
		&rate.ValuationDate,
		&rate.ProviderName,
		&rate.CreatedAt,
		&rate.LastUpdatedAt,
	)
	return rate, err
}

// UpsertRate inserts or overwrites the rate for its (source, target,
// valuation date) key. Re-running the same write is a no-op beyond
// refreshing the row; concurrent writers resolve last-writer-wins.
func (r *PgxExchangeRateRepository) UpsertRate(ctx context.Context, rate domain.ExchangeRate) error {
	modelRate := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (exchange_rate_id, source_currency_code, target_currency_code, rate, valuation_date, provider_name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_currency_code, target_currency_code, valuation_date) DO UPDATE SET
			rate = EXCLUDED.rate,
			provider_name = EXCLUDED.provider_name,
			last_updated_at = EXCLUDED.last_updated_at;
	`

	_, err := r.Pool.Exec(ctx, query,
		modelRate.ExchangeRateID,
		modelRate.SourceCurrencyCode,
		modelRate.TargetCurrencyCode,
		modelRate.Rate,
		modelRate.ValuationDate,
		modelRate.ProviderName,
		modelRate.CreatedAt,
		modelRate.LastUpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert rate %s/%s@%s: %w",
			modelRate.SourceCurrencyCode, modelRate.TargetCurrencyCode,
			modelRate.ValuationDate.Format(time.DateOnly), err)
	}
	return nil
}

// FindRateByDate retrieves the stored rate for a pair on an exact calendar date.
func (r *PgxExchangeRateRepository) FindRateByDate(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, source_currency_code, target_currency_code, rate, valuation_date, provider_name, created_at, last_updated_at
		FROM exchange_rates
		WHERE source_currency_code = $1 AND target_currency_code = $2 AND valuation_date = $3;
	`
	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, source, target, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate %s/%s@%s: %w", source, target, date.Format(time.DateOnly), err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// FindLatestRate retrieves the most recent stored rate for a pair on or
// before the given date.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, source, target string, onOrBefore time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, source_currency_code, target_currency_code, rate, valuation_date, provider_name, created_at, last_updated_at
		FROM exchange_rates
		WHERE source_currency_code = $1 AND target_currency_code = $2 AND valuation_date <= $3
		ORDER BY valuation_date DESC
		LIMIT 1;
	`
	modelRate, err := scanExchangeRate(r.Pool.QueryRow(ctx, query, source, target, onOrBefore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest rate %s/%s: %w", source, target, err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListRatesForPeriod retrieves stored rates for a source currency within an
// inclusive date window, optionally filtered to specific targets.
func (r *PgxExchangeRateRepository) ListRatesForPeriod(ctx context.Context, source string, from, to time.Time, targets []string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, source_currency_code, target_currency_code, rate, valuation_date, provider_name, created_at, last_updated_at
		FROM exchange_rates
		WHERE source_currency_code = $1
		  AND valuation_date >= $2 AND valuation_date <= $3
		  AND (cardinality($4::text[]) = 0 OR target_currency_code = ANY($4::text[]))
		ORDER BY valuation_date, target_currency_code;
	`
	if targets == nil {
		targets = []string{}
	}
	rows, err := r.Pool.Query(ctx, query, source, from, to, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for %s: %w", source, err)
	}
	defer rows.Close()

	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		return scanExchangeRate(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rates: %w", err)
	}

	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}
