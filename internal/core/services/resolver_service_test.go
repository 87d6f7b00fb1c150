package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/core/services"
	"github.com/areyesv/fx-rates-service/internal/metrics"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// --- Scripted test adapter ---
//
// Behaviour is driven by the provider config so each test can describe a
// provider's outcome declaratively:
//
//	mode: ok (default) | unavailable | notsupported | slow

const scriptedAdapterKey = "scripted"

func init() {
	ratesource.Register(scriptedAdapterKey, func(cfg ratesource.Config) (ratesource.Adapter, error) {
		return &scriptedAdapter{
			mode:  cfg.Get("mode", "ok"),
			rate:  cfg.Get("rate", "1.23"),
			delay: cfg.Duration("delay", 200*time.Millisecond),
		}, nil
	})
}

type scriptedAdapter struct {
	mode  string
	rate  string
	delay time.Duration
}

func (a *scriptedAdapter) Name() string { return "Scripted" }

func (a *scriptedAdapter) FetchRate(ctx context.Context, source, target string, date time.Time) (ratesource.Quote, error) {
	switch a.mode {
	case "unavailable":
		return ratesource.Quote{}, fmt.Errorf("%w: scripted outage", ratesource.ErrUnavailable)
	case "notsupported":
		return ratesource.Quote{}, fmt.Errorf("%w: scripted gap", ratesource.ErrNotSupported)
	case "slow":
		select {
		case <-ctx.Done():
			return ratesource.Quote{}, ctx.Err()
		case <-time.After(a.delay):
		}
	}
	return ratesource.Quote{
		SourceCurrencyCode: source,
		TargetCurrencyCode: target,
		ValuationDate:      domain.DateOnly(date),
		Rate:               decimal.RequireFromString(a.rate),
		ProviderName:       a.Name(),
	}, nil
}

func (a *scriptedAdapter) FetchRatesForDate(ctx context.Context, source string, date time.Time, targets []string) ([]ratesource.Quote, error) {
	quotes := make([]ratesource.Quote, 0, len(targets))
	for _, target := range targets {
		quote, err := a.FetchRate(ctx, source, target, date)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// --- Mock ProviderRegistrySvc ---

type MockProviderRegistry struct {
	mock.Mock
}

func (m *MockProviderRegistry) OrderedEnabledProviders(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func (m *MockProviderRegistry) GetEnabledProviderByName(ctx context.Context, name string) (*domain.Provider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

// scriptedProvider builds a provider row backed by the scripted adapter.
func scriptedProvider(name string, priority int, config map[string]string) domain.Provider {
	return domain.Provider{
		ProviderID: "provider-" + name + "-" + strconv.Itoa(priority),
		Name:       name,
		AdapterKey: scriptedAdapterKey,
		Priority:   priority,
		Enabled:    true,
		Config:     config,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now(),
			LastUpdatedAt: time.Now(),
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Test Suite ---

type ResolverServiceTestSuite struct {
	suite.Suite
	mockRegistry *MockProviderRegistry
	service      *services.ResolverService
}

func (suite *ResolverServiceTestSuite) SetupTest() {
	suite.mockRegistry = new(MockProviderRegistry)
	m := metrics.New(prometheus.NewRegistry())
	suite.service = services.NewResolverService(suite.mockRegistry, testLogger(), m, 50*time.Millisecond)
}

func (suite *ResolverServiceTestSuite) TestResolve_IdentityNeverTouchesProviders() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	// No registry expectations: a same-currency resolution must not list
	// providers at all.
	quote, err := suite.service.Resolve(ctx, "usd", "USD", date)

	suite.Require().NoError(err)
	suite.True(quote.Rate.Equal(decimal.NewFromInt(1)))
	suite.Equal("USD", quote.SourceCurrencyCode)
	suite.Equal("USD", quote.TargetCurrencyCode)
	suite.Equal(services.InternalProviderName, quote.ProviderName)
	suite.True(quote.ValuationDate.Equal(date))
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolve_FallsBackToSecondProvider() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	providers := []domain.Provider{
		scriptedProvider("primary", 1, map[string]string{"mode": "unavailable"}),
		scriptedProvider("secondary", 2, map[string]string{"rate": "0.92"}),
	}
	suite.mockRegistry.On("OrderedEnabledProviders", ctx).Return(providers, nil).Once()

	quote, err := suite.service.Resolve(ctx, "USD", "EUR", date)

	suite.Require().NoError(err)
	suite.Equal("secondary", quote.ProviderName)
	suite.True(quote.Rate.Equal(decimal.RequireFromString("0.92")))
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolve_FirstSuccessShortCircuits() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	providers := []domain.Provider{
		scriptedProvider("primary", 1, map[string]string{"rate": "1.10"}),
		// Would fail loudly if reached; the walk must stop at the first hit.
		scriptedProvider("secondary", 2, map[string]string{"mode": "unavailable"}),
	}
	suite.mockRegistry.On("OrderedEnabledProviders", ctx).Return(providers, nil).Once()

	quote, err := suite.service.Resolve(ctx, "EUR", "USD", date)

	suite.Require().NoError(err)
	suite.Equal("primary", quote.ProviderName)
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolve_EmptyRegistryExhausts() {
	ctx := context.Background()

	suite.mockRegistry.On("OrderedEnabledProviders", ctx).Return([]domain.Provider{}, nil).Once()

	_, err := suite.service.Resolve(ctx, "EUR", "USD", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAllProvidersExhausted)

	var exhausted *apperrors.ExhaustedError
	suite.Require().ErrorAs(err, &exhausted)
	suite.Empty(exhausted.Failures)
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolve_AllProvidersFailCollectsFailures() {
	ctx := context.Background()

	providers := []domain.Provider{
		scriptedProvider("primary", 1, map[string]string{"mode": "unavailable"}),
		scriptedProvider("secondary", 2, map[string]string{"mode": "notsupported"}),
	}
	suite.mockRegistry.On("OrderedEnabledProviders", ctx).Return(providers, nil).Once()

	_, err := suite.service.Resolve(ctx, "EUR", "USD", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAllProvidersExhausted)

	var exhausted *apperrors.ExhaustedError
	suite.Require().ErrorAs(err, &exhausted)
	suite.Require().Len(exhausted.Failures, 2)
	suite.Equal("primary", exhausted.Failures[0].Provider)
	suite.Equal(string(ratesource.KindUnavailable), exhausted.Failures[0].Kind)
	suite.Equal("secondary", exhausted.Failures[1].Provider)
	suite.Equal(string(ratesource.KindNotSupported), exhausted.Failures[1].Kind)
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolve_TimeoutCountsAsUnavailable() {
	ctx := context.Background()

	// The scripted delay (200ms) exceeds the resolver call timeout (50ms).
	providers := []domain.Provider{
		scriptedProvider("sluggish", 1, map[string]string{"mode": "slow"}),
	}
	suite.mockRegistry.On("OrderedEnabledProviders", ctx).Return(providers, nil).Once()

	_, err := suite.service.Resolve(ctx, "EUR", "USD", time.Now())

	suite.Require().Error(err)
	var exhausted *apperrors.ExhaustedError
	suite.Require().ErrorAs(err, &exhausted)
	suite.Require().Len(exhausted.Failures, 1)
	suite.Equal(string(ratesource.KindUnavailable), exhausted.Failures[0].Kind)
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolveWithProvider_Pinned() {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	provider := scriptedProvider("pinned", 5, map[string]string{"rate": "0.85"})
	suite.mockRegistry.On("GetEnabledProviderByName", ctx, "pinned").Return(&provider, nil).Once()

	quote, err := suite.service.ResolveWithProvider(ctx, "pinned", "USD", "GBP", date)

	suite.Require().NoError(err)
	suite.Equal("pinned", quote.ProviderName)
	suite.True(quote.Rate.Equal(decimal.RequireFromString("0.85")))
	suite.mockRegistry.AssertExpectations(suite.T())
}

func (suite *ResolverServiceTestSuite) TestResolveWithProvider_UnknownName() {
	ctx := context.Background()

	suite.mockRegistry.On("GetEnabledProviderByName", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveWithProvider(ctx, "ghost", "USD", "GBP", time.Now())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRegistry.AssertExpectations(suite.T())
}

func TestResolverServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverServiceTestSuite))
}
