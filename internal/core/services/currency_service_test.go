package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/core/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
)

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SetCurrencyActive(ctx context.Context, currencyCode string, active bool) error {
	args := m.Called(ctx, currencyCode, active)
	return args.Error(0)
}

// --- Test Suite ---

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCurrencyRepository
	service  *services.CurrencyService
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockRepo)
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{
		CurrencyCode: "CHF",
		Symbol:       "Fr",
		Name:         "Swiss Franc",
	}

	suite.mockRepo.On("SaveCurrency", ctx, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "CHF" && c.Symbol == "Fr" && c.Name == "Swiss Franc" && c.IsActive
	})).Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(currency)
	suite.Equal("CHF", currency.CurrencyCode)
	suite.True(currency.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Duplicate() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "EUR", Symbol: "€", Name: "Euro"}

	suite.mockRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).
		Return(apperrors.ErrDuplicate).Once()

	currency, err := suite.service.CreateCurrency(ctx, req)

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestRequireActiveCurrency_Unknown() {
	ctx := context.Background()

	suite.mockRepo.On("FindCurrencyByCode", ctx, "XYZ").Return(nil, apperrors.ErrNotFound).Once()

	currency, err := suite.service.RequireActiveCurrency(ctx, "xyz")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrUnknownCurrency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestRequireActiveCurrency_Inactive() {
	ctx := context.Background()
	inactive := &domain.Currency{CurrencyCode: "VEF", IsActive: false}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "VEF").Return(inactive, nil).Once()

	currency, err := suite.service.RequireActiveCurrency(ctx, "VEF")

	suite.Require().Error(err)
	suite.Nil(currency)
	suite.ErrorIs(err, apperrors.ErrUnknownCurrency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestRequireActiveCurrency_Active() {
	ctx := context.Background()
	active := &domain.Currency{CurrencyCode: "USD", IsActive: true}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "USD").Return(active, nil).Once()

	currency, err := suite.service.RequireActiveCurrency(ctx, "usd")

	suite.Require().NoError(err)
	suite.Equal(active, currency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestSetCurrencyActive_Deactivates() {
	ctx := context.Background()
	existing := &domain.Currency{CurrencyCode: "GBP", IsActive: true}
	updated := &domain.Currency{CurrencyCode: "GBP", IsActive: false}

	suite.mockRepo.On("FindCurrencyByCode", ctx, "GBP").Return(existing, nil).Once()
	suite.mockRepo.On("SetCurrencyActive", ctx, "GBP", false).Return(nil).Once()
	suite.mockRepo.On("FindCurrencyByCode", ctx, "GBP").Return(updated, nil).Once()

	currency, err := suite.service.SetCurrencyActive(ctx, "gbp", false)

	suite.Require().NoError(err)
	suite.False(currency.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_RepoError() {
	ctx := context.Background()

	suite.mockRepo.On("ListCurrencies", ctx, false).Return(nil, assert.AnError).Once()

	currencies, err := suite.service.ListCurrencies(ctx, false)

	suite.Require().Error(err)
	suite.Nil(currencies)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
