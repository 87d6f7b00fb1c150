package repositories

import (
	"context"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by its 3-letter code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	// ListCurrencies retrieves all currencies, optionally only active ones.
	ListCurrencies(ctx context.Context, activeOnly bool) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	// SetCurrencyActive toggles the active flag of a currency.
	SetCurrencyActive(ctx context.Context, currencyCode string, active bool) error
}

// CurrencyRepository combines all currency-related repository interfaces
type CurrencyRepository interface {
	CurrencyReader
	CurrencyWriter
}
