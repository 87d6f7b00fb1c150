// Package models holds persistence-shaped structs scanned from and written
// to the database. Domain equivalents live in internal/core/domain; the two
// are converted via internal/utils/mapping.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds common timestamp columns.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Currency represents a supported currency row.
type Currency struct {
	CurrencyCode string `json:"currencyCode"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// Provider represents a configured rate source row. Config is raw JSONB.
type Provider struct {
	ProviderID string `json:"providerID"`
	Name       string `json:"name"`
	AdapterKey string `json:"adapterKey"`
	Priority   int    `json:"priority"`
	Enabled    bool   `json:"enabled"`
	Config     []byte `json:"config"`
	AuditFields
}

// ExchangeRate represents a stored rate row, unique per
// (source_currency_code, target_currency_code, valuation_date).
type ExchangeRate struct {
	ExchangeRateID     string          `json:"exchangeRateID"`
	SourceCurrencyCode string          `json:"sourceCurrencyCode"`
	TargetCurrencyCode string          `json:"targetCurrencyCode"`
	Rate               decimal.Decimal `json:"rate"`
	ValuationDate      time.Time       `json:"valuationDate"`
	ProviderName       string          `json:"providerName"`
	AuditFields
}

// BackfillJob represents a backfill job row. TargetCurrencyCodes and
// Failures are raw JSONB.
type BackfillJob struct {
	JobID               string     `json:"jobID"`
	SourceCurrencyCode  string     `json:"sourceCurrencyCode"`
	TargetCurrencyCodes []byte     `json:"targetCurrencyCodes"`
	DateFrom            time.Time  `json:"dateFrom"`
	DateTo              time.Time  `json:"dateTo"`
	Status              string     `json:"status"`
	UnitsAttempted      int        `json:"unitsAttempted"`
	UnitsSucceeded      int        `json:"unitsSucceeded"`
	UnitsFailed         int        `json:"unitsFailed"`
	Failures            []byte     `json:"failures"`
	Error               string     `json:"error"`
	CreatedAt           time.Time  `json:"createdAt"`
	StartedAt           *time.Time `json:"startedAt"`
	FinishedAt          *time.Time `json:"finishedAt"`
}
