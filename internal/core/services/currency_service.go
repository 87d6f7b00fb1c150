package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/dto"
)

// CurrencyService provides business logic for currency management.
type CurrencyService struct {
	currencyRepo portsrepo.CurrencyRepository
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository) *CurrencyService {
	return &CurrencyService{currencyRepo: currencyRepo}
}

// CreateCurrency registers a new currency. New currencies start active.
func (s *CurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	now := time.Now()

	currency := domain.Currency{
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		Symbol:       req.Symbol,
		Name:         req.Name,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: currency %q already exists", apperrors.ErrDuplicate, currency.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to create currency in service: %w", err)
	}

	return &currency, nil
}

// GetCurrencyByCode retrieves a currency by its code.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, strings.ToUpper(currencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get currency by code in service: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all currencies, optionally only active ones.
func (s *CurrencyService) ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies in service: %w", err)
	}
	// Return empty slice if no currencies found, not nil
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

// RequireActiveCurrency resolves a code to an active currency or fails with
// ErrUnknownCurrency. Used by the rate and backfill services to validate
// inputs before any provider work starts.
func (s *CurrencyService) RequireActiveCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code := strings.ToUpper(currencyCode)
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, code)
		}
		return nil, fmt.Errorf("failed to validate currency %q: %w", code, err)
	}
	if !currency.IsActive {
		return nil, fmt.Errorf("%w: %s is inactive", apperrors.ErrUnknownCurrency, code)
	}
	return currency, nil
}

// SetCurrencyActive toggles the active flag of a currency.
func (s *CurrencyService) SetCurrencyActive(ctx context.Context, currencyCode string, active bool) (*domain.Currency, error) {
	code := strings.ToUpper(currencyCode)
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to get currency %q: %w", code, err)
	}
	if err := s.currencyRepo.SetCurrencyActive(ctx, code, active); err != nil {
		return nil, fmt.Errorf("failed to update currency %q: %w", code, err)
	}
	return s.currencyRepo.FindCurrencyByCode(ctx, code)
}
