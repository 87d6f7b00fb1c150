package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// ConvertRequest defines the structure for currency conversion requests.
// Date is optional and defaults to today.
type ConvertRequest struct {
	SourceCurrencyCode  string          `json:"sourceCurrencyCode" binding:"required,len=3,uppercase"`
	TargetCurrencyCodes []string        `json:"targetCurrencyCodes" binding:"required,min=1,dive,len=3,uppercase"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Date                string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ConversionResponse is one converted amount.
type ConversionResponse struct {
	SourceCurrencyCode string          `json:"sourceCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	OriginalAmount     decimal.Decimal `json:"originalAmount"`
	ConvertedAmount    decimal.Decimal `json:"convertedAmount"`
	Rate               decimal.Decimal `json:"rate"`
	ValuationDate      string          `json:"valuationDate"`
}

// ConvertManyResponse aggregates per-target conversions. Targets that could
// not be converted appear in Errors instead of Conversions.
type ConvertManyResponse struct {
	Conversions map[string]ConversionResponse `json:"conversions"`
	Errors      map[string]string             `json:"errors,omitempty"`
}

// ToConversionResponse converts a domain.Conversion to ConversionResponse DTO
func ToConversionResponse(c *domain.Conversion) ConversionResponse {
	return ConversionResponse{
		SourceCurrencyCode: c.SourceCurrencyCode,
		TargetCurrencyCode: c.TargetCurrencyCode,
		OriginalAmount:     c.OriginalAmount,
		ConvertedAmount:    c.ConvertedAmount,
		Rate:               c.Rate,
		ValuationDate:      c.ValuationDate.Format(time.DateOnly),
	}
}
