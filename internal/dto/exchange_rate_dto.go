package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// ExchangeRateResponse defines the structure for API responses containing a
// resolved or stored rate.
type ExchangeRateResponse struct {
	SourceCurrencyCode string          `json:"sourceCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
	ValuationDate      string          `json:"valuationDate"`
	ProviderName       string          `json:"providerName"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		SourceCurrencyCode: rate.SourceCurrencyCode,
		TargetCurrencyCode: rate.TargetCurrencyCode,
		Rate:               rate.Rate,
		ValuationDate:      rate.ValuationDate.Format(time.DateOnly),
		ProviderName:       rate.ProviderName,
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}
