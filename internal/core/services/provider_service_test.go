package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/core/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
)

// --- Mock ProviderRepository ---

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) SaveProvider(ctx context.Context, provider domain.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) UpdateProvider(ctx context.Context, provider domain.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) FindProviderByName(ctx context.Context, name string) (*domain.Provider, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockProviderRepository) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func (m *MockProviderRepository) ListEnabledProviders(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

// --- Test Suite ---

type ProviderServiceTestSuite struct {
	suite.Suite
	mockRepo *MockProviderRepository
	service  *services.ProviderService
}

func (suite *ProviderServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockProviderRepository)
	suite.service = services.NewProviderService(suite.mockRepo)
}

func (suite *ProviderServiceTestSuite) TestCreateProvider_Success() {
	ctx := context.Background()
	req := dto.CreateProviderRequest{
		Name:       "scripted-primary",
		AdapterKey: scriptedAdapterKey,
		Priority:   1,
		Enabled:    true,
		Config:     map[string]string{"rate": "1.10"},
	}

	suite.mockRepo.On("SaveProvider", ctx, mock.MatchedBy(func(p domain.Provider) bool {
		return p.Name == req.Name && p.AdapterKey == req.AdapterKey && p.Priority == 1 && p.Enabled && p.ProviderID != ""
	})).Return(nil).Once()

	provider, err := suite.service.CreateProvider(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(req.Name, provider.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProviderServiceTestSuite) TestCreateProvider_UnknownAdapterKey() {
	ctx := context.Background()
	req := dto.CreateProviderRequest{
		Name:       "broken",
		AdapterKey: "no-such-adapter",
	}

	provider, err := suite.service.CreateProvider(ctx, req)

	suite.Require().Error(err)
	suite.Nil(provider)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProviderServiceTestSuite) TestUpdateProvider_PatchesOnlyGivenFields() {
	ctx := context.Background()
	existing := &domain.Provider{
		ProviderID: "provider-1",
		Name:       "scripted-primary",
		AdapterKey: scriptedAdapterKey,
		Priority:   1,
		Enabled:    true,
		Config:     map[string]string{"rate": "1.10"},
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Now().Add(-time.Hour),
			LastUpdatedAt: time.Now().Add(-time.Hour),
		},
	}
	newPriority := 9

	suite.mockRepo.On("FindProviderByName", ctx, "scripted-primary").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateProvider", ctx, mock.MatchedBy(func(p domain.Provider) bool {
		// Priority changed, enabled and config untouched.
		return p.Priority == 9 && p.Enabled && p.Config["rate"] == "1.10"
	})).Return(nil).Once()

	provider, err := suite.service.UpdateProvider(ctx, "scripted-primary", dto.UpdateProviderRequest{
		Priority: &newPriority,
	})

	suite.Require().NoError(err)
	suite.Equal(9, provider.Priority)
	suite.True(provider.Enabled)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProviderServiceTestSuite) TestGetEnabledProviderByName_Disabled() {
	ctx := context.Background()
	disabled := &domain.Provider{Name: "benched", Enabled: false}

	suite.mockRepo.On("FindProviderByName", ctx, "benched").Return(disabled, nil).Once()

	provider, err := suite.service.GetEnabledProviderByName(ctx, "benched")

	suite.Require().Error(err)
	suite.Nil(provider)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProviderServiceTestSuite) TestOrderedEnabledProviders_PassesThroughOrder() {
	ctx := context.Background()
	ordered := []domain.Provider{
		{Name: "alpha", Priority: 1, Enabled: true},
		{Name: "beta", Priority: 1, Enabled: true},
		{Name: "gamma", Priority: 5, Enabled: true},
	}

	suite.mockRepo.On("ListEnabledProviders", ctx).Return(ordered, nil).Once()

	providers, err := suite.service.OrderedEnabledProviders(ctx)

	suite.Require().NoError(err)
	suite.Equal(ordered, providers)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestProviderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderServiceTestSuite))
}
