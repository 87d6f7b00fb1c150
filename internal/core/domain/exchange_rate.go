package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a
// specific valuation date. At most one rate exists per
// (source, target, date); later fetches overwrite.
type ExchangeRate struct {
	ExchangeRateID     string          `json:"exchangeRateID"`     // Primary Key (UUID)
	SourceCurrencyCode string          `json:"sourceCurrencyCode"` // FK -> Currency.currencyCode
	TargetCurrencyCode string          `json:"targetCurrencyCode"` // FK -> Currency.currencyCode
	Rate               decimal.Decimal `json:"rate"`
	ValuationDate      time.Time       `json:"valuationDate"` // Calendar date, UTC midnight
	ProviderName       string          `json:"providerName"`  // Provider that produced the rate
	AuditFields
}
