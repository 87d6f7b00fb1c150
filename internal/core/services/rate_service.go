package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// RateService is the store-backed rate lookup. The caching discipline the
// whole design depends on lives here: check the store, resolve only on
// miss, then upsert the resolved rate so the next lookup is a hit.
type RateService struct {
	rateRepo    portsrepo.ExchangeRateRepository
	resolver    portssvc.RateResolverSvc
	currencySvc portssvc.CurrencyReaderSvc
	logger      *slog.Logger
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo portsrepo.ExchangeRateRepository, resolver portssvc.RateResolverSvc, currencySvc portssvc.CurrencyReaderSvc, logger *slog.Logger) *RateService {
	return &RateService{
		rateRepo:    rateRepo,
		resolver:    resolver,
		currencySvc: currencySvc,
		logger:      logger,
	}
}

// GetRate returns the rate for a pair on a calendar date: stored value on a
// hit, freshly resolved and persisted on a miss.
func (s *RateService) GetRate(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	date = domain.DateOnly(date)

	if _, err := s.currencySvc.RequireActiveCurrency(ctx, source); err != nil {
		return nil, err
	}
	if source == target {
		// Identity rates are synthesised, never stored.
		now := time.Now()
		return &domain.ExchangeRate{
			SourceCurrencyCode: source,
			TargetCurrencyCode: target,
			Rate:               decimal.NewFromInt(1),
			ValuationDate:      date,
			ProviderName:       InternalProviderName,
			AuditFields:        domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}, nil
	}
	if _, err := s.currencySvc.RequireActiveCurrency(ctx, target); err != nil {
		return nil, err
	}

	stored, err := s.rateRepo.FindRateByDate(ctx, source, target, date)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read rate store: %w", err)
	}

	return s.resolveAndStore(ctx, source, target, date)
}

// GetRateOrLatest returns the stored rate for the exact date, falling back
// to the most recent stored rate on or before it, and resolves live only
// when the store holds nothing usable for the pair. Conversion follows
// this relaxed discipline; exact-date lookups use GetRate.
func (s *RateService) GetRateOrLatest(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	date = domain.DateOnly(date)

	if source == target {
		return s.GetRate(ctx, source, target, date)
	}
	if _, err := s.currencySvc.RequireActiveCurrency(ctx, source); err != nil {
		return nil, err
	}
	if _, err := s.currencySvc.RequireActiveCurrency(ctx, target); err != nil {
		return nil, err
	}

	stored, err := s.rateRepo.FindRateByDate(ctx, source, target, date)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read rate store: %w", err)
	}

	latest, err := s.rateRepo.FindLatestRate(ctx, source, target, date)
	if err == nil {
		return latest, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to read rate store: %w", err)
	}

	return s.resolveAndStore(ctx, source, target, date)
}

// resolveAndStore resolves a rate through the provider chain and persists
// it so the next lookup is a store hit.
func (s *RateService) resolveAndStore(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	s.logger.Info("Rate not in store, resolving from providers",
		slog.String("pair", source+"/"+target),
		slog.String("date", date.Format(time.DateOnly)),
	)

	quote, err := s.resolver.Resolve(ctx, source, target, date)
	if err != nil {
		return nil, err
	}

	rate := quoteToRate(quote)
	if err := s.rateRepo.UpsertRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to persist resolved rate: %w", err)
	}
	return &rate, nil
}

// GetRatesForPeriod lists stored rates for a source within an inclusive
// date window, optionally filtered to targets. It never triggers provider
// calls; gaps are filled by backfill.
func (s *RateService) GetRatesForPeriod(ctx context.Context, source string, from, to time.Time, targets []string) ([]domain.ExchangeRate, error) {
	source = strings.ToUpper(source)
	from = domain.DateOnly(from)
	to = domain.DateOnly(to)

	if from.After(to) {
		return nil, fmt.Errorf("%w: %s is after %s", apperrors.ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if _, err := s.currencySvc.RequireActiveCurrency(ctx, source); err != nil {
		return nil, err
	}

	upper := make([]string, len(targets))
	for i, t := range targets {
		upper[i] = strings.ToUpper(t)
	}

	rates, err := s.rateRepo.ListRatesForPeriod(ctx, source, from, to, upper)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates for period: %w", err)
	}
	if rates == nil {
		return []domain.ExchangeRate{}, nil
	}
	return rates, nil
}

// quoteToRate builds a persistable rate from a provider quote. The quote's
// valuation date wins over the requested one: adapters clamp future dates
// to today.
func quoteToRate(quote ratesource.Quote) domain.ExchangeRate {
	now := time.Now()
	return domain.ExchangeRate{
		ExchangeRateID:     uuid.NewString(),
		SourceCurrencyCode: quote.SourceCurrencyCode,
		TargetCurrencyCode: quote.TargetCurrencyCode,
		Rate:               quote.Rate,
		ValuationDate:      quote.ValuationDate,
		ProviderName:       quote.ProviderName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}
