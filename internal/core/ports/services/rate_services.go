package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// RateResolverSvc resolves a rate by walking enabled providers in priority
// order. It never touches the rate store.
type RateResolverSvc interface {
	// Resolve returns the first successful quote, or an
	// apperrors.ExhaustedError when every provider fails.
	Resolve(ctx context.Context, source, target string, date time.Time) (ratesource.Quote, error)

	// ResolveWithProvider pins the resolution to one named enabled provider,
	// bypassing fallback.
	ResolveWithProvider(ctx context.Context, providerName, source, target string, date time.Time) (ratesource.Quote, error)
}

// RateSvcFacade is the store-backed rate lookup: store hit wins, miss goes
// through the resolver and the result is upserted.
type RateSvcFacade interface {
	GetRate(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error)

	// GetRateOrLatest relaxes the date match: exact stored rate, then the
	// most recent stored rate on or before the date, then live resolution.
	GetRateOrLatest(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error)

	// GetRatesForPeriod lists stored rates for a source within an inclusive
	// window, optionally filtered to targets.
	GetRatesForPeriod(ctx context.Context, source string, from, to time.Time, targets []string) ([]domain.ExchangeRate, error)
}

// ConverterSvcFacade converts amounts using stored or freshly resolved rates.
type ConverterSvcFacade interface {
	Convert(ctx context.Context, source, target string, amount decimal.Decimal, date time.Time) (*domain.Conversion, error)

	// ConvertMany converts to several targets; per-target failures are
	// returned in the second map keyed by target code.
	ConvertMany(ctx context.Context, source string, targets []string, amount decimal.Decimal, date time.Time) (map[string]domain.Conversion, map[string]string, error)
}
