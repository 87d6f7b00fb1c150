package services

import (
	"context"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/dto"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves currencies, optionally only active ones.
	ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error)

	// RequireActiveCurrency returns apperrors.ErrUnknownCurrency when the
	// code is not registered or inactive.
	RequireActiveCurrency(ctx context.Context, currencyCode string) (*domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest) (*domain.Currency, error)

	// SetCurrencyActive toggles the active flag of a currency.
	SetCurrencyActive(ctx context.Context, currencyCode string, active bool) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}
