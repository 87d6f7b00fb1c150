package dto

import (
	"time"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// CreateCurrencyRequest defines the structure for registering a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Symbol       string `json:"symbol" binding:"required,max=5"`
	Name         string `json:"name" binding:"required,max=100"`
}

// UpdateCurrencyRequest toggles the active flag of a currency.
type UpdateCurrencyRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// CurrencyResponse defines the structure for API responses containing currency details.
type CurrencyResponse struct {
	CurrencyCode  string    `json:"currencyCode"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  c.CurrencyCode,
		Symbol:        c.Symbol,
		Name:          c.Name,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to DTOs.
func ToListCurrencyResponse(cs []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(cs))
	for i := range cs {
		responses[i] = ToCurrencyResponse(&cs[i])
	}
	return responses
}
