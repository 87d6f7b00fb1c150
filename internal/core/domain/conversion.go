package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conversion is the result of converting an amount between two currencies
// using a resolved or stored rate. ConvertedAmount is rounded to the
// output precision; Rate keeps full precision.
type Conversion struct {
	SourceCurrencyCode string          `json:"sourceCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	OriginalAmount     decimal.Decimal `json:"originalAmount"`
	ConvertedAmount    decimal.Decimal `json:"convertedAmount"`
	Rate               decimal.Decimal `json:"rate"`
	ValuationDate      time.Time       `json:"valuationDate"`
}
