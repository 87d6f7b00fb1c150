package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/handlers"
	"github.com/areyesv/fx-rates-service/internal/platform/config"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// --- Mock CurrencySvcFacade ---

type MockCurrencySvc struct {
	mock.Mock
}

func (m *MockCurrencySvc) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) RequireActiveCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) SetCurrencyActive(ctx context.Context, code string, active bool) (*domain.Currency, error) {
	args := m.Called(ctx, code, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

var _ portssvc.CurrencySvcFacade = (*MockCurrencySvc)(nil)

// --- Mock ProviderSvcFacade ---

type MockProviderSvc struct {
	mock.Mock
}

func (m *MockProviderSvc) OrderedEnabledProviders(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func (m *MockProviderSvc) GetEnabledProviderByName(ctx context.Context, name string) (*domain.Provider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockProviderSvc) CreateProvider(ctx context.Context, req dto.CreateProviderRequest) (*domain.Provider, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockProviderSvc) UpdateProvider(ctx context.Context, name string, req dto.UpdateProviderRequest) (*domain.Provider, error) {
	args := m.Called(ctx, name, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockProviderSvc) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

var _ portssvc.ProviderSvcFacade = (*MockProviderSvc)(nil)

// --- Mock RateResolverSvc ---

type MockResolverSvc struct {
	mock.Mock
}

func (m *MockResolverSvc) Resolve(ctx context.Context, source, target string, date time.Time) (ratesource.Quote, error) {
	args := m.Called(ctx, source, target, date)
	return args.Get(0).(ratesource.Quote), args.Error(1)
}

func (m *MockResolverSvc) ResolveWithProvider(ctx context.Context, providerName, source, target string, date time.Time) (ratesource.Quote, error) {
	args := m.Called(ctx, providerName, source, target, date)
	return args.Get(0).(ratesource.Quote), args.Error(1)
}

var _ portssvc.RateResolverSvc = (*MockResolverSvc)(nil)

// --- Mock RateSvcFacade ---

type MockRateSvc struct {
	mock.Mock
}

func (m *MockRateSvc) GetRate(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, source, target, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateSvc) GetRateOrLatest(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, source, target, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateSvc) GetRatesForPeriod(ctx context.Context, source string, from, to time.Time, targets []string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, source, from, to, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

var _ portssvc.RateSvcFacade = (*MockRateSvc)(nil)

// --- Mock ConverterSvcFacade ---

type MockConverterSvc struct {
	mock.Mock
}

func (m *MockConverterSvc) Convert(ctx context.Context, source, target string, amount decimal.Decimal, date time.Time) (*domain.Conversion, error) {
	args := m.Called(ctx, source, target, amount, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockConverterSvc) ConvertMany(ctx context.Context, source string, targets []string, amount decimal.Decimal, date time.Time) (map[string]domain.Conversion, map[string]string, error) {
	args := m.Called(ctx, source, targets, amount, date)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(map[string]domain.Conversion), args.Get(1).(map[string]string), args.Error(2)
}

var _ portssvc.ConverterSvcFacade = (*MockConverterSvc)(nil)

// --- Mock BackfillSvcFacade ---

type MockBackfillSvc struct {
	mock.Mock
}

func (m *MockBackfillSvc) Run(ctx context.Context, job domain.BackfillJob) (domain.BackfillResult, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(domain.BackfillResult), args.Error(1)
}

func (m *MockBackfillSvc) Submit(ctx context.Context, req dto.CreateBackfillJobRequest) (*domain.BackfillJob, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackfillJob), args.Error(1)
}

func (m *MockBackfillSvc) GetJob(ctx context.Context, jobID string) (*domain.BackfillJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BackfillJob), args.Error(1)
}

func (m *MockBackfillSvc) ListJobs(ctx context.Context, limit int) ([]domain.BackfillJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BackfillJob), args.Error(1)
}

func (m *MockBackfillSvc) RefreshLatest(ctx context.Context, source string, targets []string) (domain.BackfillResult, error) {
	args := m.Called(ctx, source, targets)
	return args.Get(0).(domain.BackfillResult), args.Error(1)
}

var _ portssvc.BackfillSvcFacade = (*MockBackfillSvc)(nil)

// --- Test Suite ---

type RatesHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCurrency *MockCurrencySvc
	mockProvider *MockProviderSvc
	mockResolver *MockResolverSvc
	mockRate     *MockRateSvc
	mockConvert  *MockConverterSvc
	mockBackfill *MockBackfillSvc
}

func (suite *RatesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockCurrency = new(MockCurrencySvc)
	suite.mockProvider = new(MockProviderSvc)
	suite.mockResolver = new(MockResolverSvc)
	suite.mockRate = new(MockRateSvc)
	suite.mockConvert = new(MockConverterSvc)
	suite.mockBackfill = new(MockBackfillSvc)

	container := &portssvc.ServiceContainer{
		Currency:  suite.mockCurrency,
		Provider:  suite.mockProvider,
		Resolver:  suite.mockResolver,
		Rate:      suite.mockRate,
		Converter: suite.mockConvert,
		Backfill:  suite.mockBackfill,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{}, container)
}

func (suite *RatesHandlerTestSuite) serve(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RatesHandlerTestSuite) TestGetRate_OK() {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rate := &domain.ExchangeRate{
		SourceCurrencyCode: "USD",
		TargetCurrencyCode: "EUR",
		Rate:               decimal.RequireFromString("0.93"),
		ValuationDate:      date,
		ProviderName:       "beacon",
	}
	suite.mockRate.On("GetRate", mock.Anything, "USD", "EUR", date).Return(rate, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/rates/USD/EUR?date=2024-03-15", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("USD", resp.SourceCurrencyCode)
	suite.Equal("EUR", resp.TargetCurrencyCode)
	suite.Equal("2024-03-15", resp.ValuationDate)
	suite.Equal("beacon", resp.ProviderName)
	suite.mockRate.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRate_BadDate() {
	w := suite.serve(http.MethodGet, "/api/v1/rates/USD/EUR?date=15-03-2024", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RatesHandlerTestSuite) TestGetRate_ExhaustedIsBadGateway() {
	exhausted := &apperrors.ExhaustedError{Failures: []apperrors.ProviderFailure{
		{Provider: "beacon", Kind: "unavailable", Message: "HTTP 503"},
	}}
	suite.mockRate.On("GetRate", mock.Anything, "USD", "EUR", mock.Anything).
		Return(nil, exhausted).Once()

	w := suite.serve(http.MethodGet, "/api/v1/rates/USD/EUR", nil)

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "failures")
	suite.mockRate.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRate_UnknownCurrencyIsBadRequest() {
	suite.mockRate.On("GetRate", mock.Anything, "XXX", "EUR", mock.Anything).
		Return(nil, apperrors.ErrUnknownCurrency).Once()

	w := suite.serve(http.MethodGet, "/api/v1/rates/XXX/EUR", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRate.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRate_PinnedProvider() {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	quote := ratesource.Quote{
		SourceCurrencyCode: "USD",
		TargetCurrencyCode: "EUR",
		ValuationDate:      date,
		Rate:               decimal.RequireFromString("0.95"),
		ProviderName:       "beacon",
	}
	suite.mockResolver.On("ResolveWithProvider", mock.Anything, "beacon", "USD", "EUR", date).
		Return(quote, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/rates/USD/EUR?date=2024-03-15&provider=beacon", nil)

	suite.Equal(http.StatusOK, w.Code)
	// Pinned lookups bypass the store entirely.
	suite.mockRate.AssertExpectations(suite.T())
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestConvert_OK() {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	conversions := map[string]domain.Conversion{
		"EUR": {
			SourceCurrencyCode: "USD",
			TargetCurrencyCode: "EUR",
			OriginalAmount:     decimal.RequireFromString("100"),
			ConvertedAmount:    decimal.RequireFromString("93.34"),
			Rate:               decimal.RequireFromString("0.93337"),
			ValuationDate:      date,
		},
	}
	suite.mockConvert.On("ConvertMany", mock.Anything, "USD", []string{"EUR"}, mock.Anything, date).
		Return(conversions, map[string]string{}, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/convert", dto.ConvertRequest{
		SourceCurrencyCode:  "USD",
		TargetCurrencyCodes: []string{"EUR"},
		Amount:              decimal.RequireFromString("100"),
		Date:                "2024-03-15",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ConvertManyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Conversions, "EUR")
	suite.Empty(resp.Errors)
	suite.mockConvert.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestConvert_MissingAmountRejected() {
	w := suite.serve(http.MethodPost, "/api/v1/convert", map[string]any{
		"sourceCurrencyCode":  "USD",
		"targetCurrencyCodes": []string{"EUR"},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *RatesHandlerTestSuite) TestSubmitBackfillJob_Accepted() {
	job := &domain.BackfillJob{
		JobID:               "job-1",
		SourceCurrencyCode:  "USD",
		TargetCurrencyCodes: []string{"EUR"},
		DateFrom:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:              time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:              domain.BackfillPending,
		CreatedAt:           time.Now(),
	}
	suite.mockBackfill.On("Submit", mock.Anything, mock.AnythingOfType("dto.CreateBackfillJobRequest")).
		Return(job, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/backfill-jobs", dto.CreateBackfillJobRequest{
		SourceCurrencyCode:  "USD",
		DateFrom:            "2024-03-01",
		DateTo:              "2024-03-10",
		TargetCurrencyCodes: []string{"EUR"},
	})

	suite.Equal(http.StatusAccepted, w.Code)
	var resp dto.BackfillJobResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("job-1", resp.JobID)
	suite.Equal("pending", resp.Status)
	suite.mockBackfill.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetBackfillJob_NotFound() {
	suite.mockBackfill.On("GetJob", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, "/api/v1/backfill-jobs/ghost", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockBackfill.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetCurrency_NotFound() {
	suite.mockCurrency.On("GetCurrencyByCode", mock.Anything, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, "/api/v1/currencies/ZZZ", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockCurrency.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestHealth() {
	w := suite.serve(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestRatesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RatesHandlerTestSuite))
}
