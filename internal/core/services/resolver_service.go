package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/metrics"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// InternalProviderName is stamped on quotes that never hit an adapter
// (same-currency lookups).
const InternalProviderName = "internal"

// ResolverService resolves exchange rates by trying enabled providers in
// priority order with fallback on failure. It holds no rate state; caching
// is the rate service's job.
type ResolverService struct {
	registry    portssvc.ProviderRegistrySvc
	logger      *slog.Logger
	metrics     *metrics.Metrics
	callTimeout time.Duration

	// Adapter instances are cached per provider so HTTP clients and their
	// connection pools are reused across resolutions.
	mu       sync.Mutex
	adapters map[string]cachedAdapter
}

type cachedAdapter struct {
	adapter   ratesource.Adapter
	updatedAt time.Time
}

// NewResolverService creates a new ResolverService. callTimeout bounds each
// individual adapter call.
func NewResolverService(registry portssvc.ProviderRegistrySvc, logger *slog.Logger, m *metrics.Metrics, callTimeout time.Duration) *ResolverService {
	return &ResolverService{
		registry:    registry,
		logger:      logger,
		metrics:     m,
		callTimeout: callTimeout,
		adapters:    make(map[string]cachedAdapter),
	}
}

func (s *ResolverService) adapterFor(provider domain.Provider) (ratesource.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.adapters[provider.ProviderID]
	if ok && cached.updatedAt.Equal(provider.LastUpdatedAt) {
		return cached.adapter, nil
	}

	adapter, err := ratesource.New(provider.AdapterKey, provider.Config)
	if err != nil {
		return nil, err
	}
	s.adapters[provider.ProviderID] = cachedAdapter{adapter: adapter, updatedAt: provider.LastUpdatedAt}
	return adapter, nil
}

// fetch runs one timeout-bounded adapter call and records metrics.
func (s *ResolverService) fetch(ctx context.Context, provider domain.Provider, adapter ratesource.Adapter, source, target string, date time.Time) (ratesource.Quote, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	s.metrics.ProviderAttemptsTotal.WithLabelValues(provider.Name).Inc()
	start := time.Now()
	quote, err := adapter.FetchRate(callCtx, source, target, date)
	s.metrics.ProviderCallDuration.WithLabelValues(provider.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		// A timeout surfaces as context.DeadlineExceeded; count it as the
		// provider being unavailable.
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: call timed out after %s", ratesource.ErrUnavailable, s.callTimeout)
		}
		s.metrics.ProviderFailuresTotal.WithLabelValues(provider.Name, string(ratesource.Classify(err))).Inc()
		return quote, err
	}

	// Stamp the configured provider name so stored rates trace back to
	// registry entries, not adapter display names.
	quote.ProviderName = provider.Name
	return quote, nil
}

func identityQuote(source string, date time.Time) ratesource.Quote {
	return ratesource.Quote{
		SourceCurrencyCode: source,
		TargetCurrencyCode: source,
		ValuationDate:      domain.DateOnly(date),
		Rate:               decimal.NewFromInt(1),
		ProviderName:       InternalProviderName,
	}
}

// Resolve walks the registry snapshot in priority order and returns the
// first successful quote. Per-provider failures are logged and collected;
// when every provider fails (or none are enabled) the returned error wraps
// apperrors.ErrAllProvidersExhausted with the failure list. A provider is
// never tried twice within one resolution.
func (s *ResolverService) Resolve(ctx context.Context, source, target string, date time.Time) (ratesource.Quote, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	date = domain.DateOnly(date)

	if source == target {
		return identityQuote(source, date), nil
	}

	providers, err := s.registry.OrderedEnabledProviders(ctx)
	if err != nil {
		return ratesource.Quote{}, fmt.Errorf("failed to snapshot provider registry: %w", err)
	}

	var failures []apperrors.ProviderFailure
	for _, provider := range providers {
		logger := s.logger.With(
			slog.String("provider", provider.Name),
			slog.Int("priority", provider.Priority),
			slog.String("pair", source+"/"+target),
			slog.String("date", date.Format(time.DateOnly)),
		)

		adapter, err := s.adapterFor(provider)
		if err != nil {
			logger.Error("Failed to instantiate adapter", slog.String("error", err.Error()))
			failures = append(failures, apperrors.ProviderFailure{
				Provider: provider.Name,
				Kind:     string(ratesource.KindUnavailable),
				Message:  err.Error(),
			})
			continue
		}

		quote, err := s.fetch(ctx, provider, adapter, source, target, date)
		if err != nil {
			logger.Warn("Provider failed, trying next", slog.String("kind", string(ratesource.Classify(err))), slog.String("error", err.Error()))
			failures = append(failures, apperrors.ProviderFailure{
				Provider: provider.Name,
				Kind:     string(ratesource.Classify(err)),
				Message:  err.Error(),
			})
			continue
		}

		logger.Debug("Provider returned rate", slog.String("rate", quote.Rate.String()))
		s.metrics.ResolutionsTotal.WithLabelValues("success").Inc()
		return quote, nil
	}

	s.metrics.ResolutionsTotal.WithLabelValues("exhausted").Inc()
	exhausted := &apperrors.ExhaustedError{Failures: failures}
	s.logger.Warn("All providers exhausted",
		slog.String("pair", source+"/"+target),
		slog.String("date", date.Format(time.DateOnly)),
		slog.Int("providers_tried", len(failures)),
	)
	return ratesource.Quote{}, exhausted
}

// ResolveWithProvider pins the resolution to one named enabled provider,
// bypassing the fallback chain.
func (s *ResolverService) ResolveWithProvider(ctx context.Context, providerName, source, target string, date time.Time) (ratesource.Quote, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	date = domain.DateOnly(date)

	if source == target {
		return identityQuote(source, date), nil
	}

	provider, err := s.registry.GetEnabledProviderByName(ctx, providerName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ratesource.Quote{}, fmt.Errorf("%w: provider %q not found or disabled", apperrors.ErrValidation, providerName)
		}
		return ratesource.Quote{}, fmt.Errorf("failed to look up provider %q: %w", providerName, err)
	}

	adapter, err := s.adapterFor(*provider)
	if err != nil {
		return ratesource.Quote{}, fmt.Errorf("failed to instantiate adapter for %q: %w", providerName, err)
	}

	return s.fetch(ctx, *provider, adapter, source, target, date)
}
