package mapping

import (
	"encoding/json"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/models"
)

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Symbol:       d.Symbol,
		Name:         d.Name,
		IsActive:     d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Symbol:       m.Symbol,
		Name:         m.Name,
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToDomainCurrencySlice converts a slice of model Currencies to domain Currencies
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	ds := make([]domain.Currency, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCurrency(m)
	}
	return ds
}

// ToModelProvider converts a domain Provider to a model Provider.
// The adapter config map is marshalled to JSONB.
func ToModelProvider(d domain.Provider) (models.Provider, error) {
	cfg, err := json.Marshal(d.Config)
	if err != nil {
		return models.Provider{}, err
	}
	return models.Provider{
		ProviderID: d.ProviderID,
		Name:       d.Name,
		AdapterKey: d.AdapterKey,
		Priority:   d.Priority,
		Enabled:    d.Enabled,
		Config:     cfg,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}, nil
}

// ToDomainProvider converts a model Provider to a domain Provider
func ToDomainProvider(m models.Provider) (domain.Provider, error) {
	var cfg map[string]string
	if len(m.Config) > 0 {
		if err := json.Unmarshal(m.Config, &cfg); err != nil {
			return domain.Provider{}, err
		}
	}
	return domain.Provider{
		ProviderID: m.ProviderID,
		Name:       m.Name,
		AdapterKey: m.AdapterKey,
		Priority:   m.Priority,
		Enabled:    m.Enabled,
		Config:     cfg,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}, nil
}

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:     d.ExchangeRateID,
		SourceCurrencyCode: d.SourceCurrencyCode,
		TargetCurrencyCode: d.TargetCurrencyCode,
		Rate:               d.Rate,
		ValuationDate:      d.ValuationDate,
		ProviderName:       d.ProviderName,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID:     m.ExchangeRateID,
		SourceCurrencyCode: m.SourceCurrencyCode,
		TargetCurrencyCode: m.TargetCurrencyCode,
		Rate:               m.Rate,
		ValuationDate:      m.ValuationDate,
		ProviderName:       m.ProviderName,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// ToDomainExchangeRateSlice converts model ExchangeRates to domain ExchangeRates
func ToDomainExchangeRateSlice(ms []models.ExchangeRate) []domain.ExchangeRate {
	ds := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRate(m)
	}
	return ds
}

// ToModelBackfillJob converts a domain BackfillJob to a model BackfillJob
func ToModelBackfillJob(d domain.BackfillJob) (models.BackfillJob, error) {
	targets, err := json.Marshal(d.TargetCurrencyCodes)
	if err != nil {
		return models.BackfillJob{}, err
	}
	failures, err := json.Marshal(d.Failures)
	if err != nil {
		return models.BackfillJob{}, err
	}
	return models.BackfillJob{
		JobID:               d.JobID,
		SourceCurrencyCode:  d.SourceCurrencyCode,
		TargetCurrencyCodes: targets,
		DateFrom:            d.DateFrom,
		DateTo:              d.DateTo,
		Status:              string(d.Status),
		UnitsAttempted:      d.UnitsAttempted,
		UnitsSucceeded:      d.UnitsSucceeded,
		UnitsFailed:         d.UnitsFailed,
		Failures:            failures,
		Error:               d.Error,
		CreatedAt:           d.CreatedAt,
		StartedAt:           d.StartedAt,
		FinishedAt:          d.FinishedAt,
	}, nil
}

// ToDomainBackfillJob converts a model BackfillJob to a domain BackfillJob
func ToDomainBackfillJob(m models.BackfillJob) (domain.BackfillJob, error) {
	var targets []string
	if len(m.TargetCurrencyCodes) > 0 {
		if err := json.Unmarshal(m.TargetCurrencyCodes, &targets); err != nil {
			return domain.BackfillJob{}, err
		}
	}
	var failures []domain.BackfillUnitFailure
	if len(m.Failures) > 0 {
		if err := json.Unmarshal(m.Failures, &failures); err != nil {
			return domain.BackfillJob{}, err
		}
	}
	return domain.BackfillJob{
		JobID:               m.JobID,
		SourceCurrencyCode:  m.SourceCurrencyCode,
		TargetCurrencyCodes: targets,
		DateFrom:            m.DateFrom,
		DateTo:              m.DateTo,
		Status:              domain.BackfillStatus(m.Status),
		UnitsAttempted:      m.UnitsAttempted,
		UnitsSucceeded:      m.UnitsSucceeded,
		UnitsFailed:         m.UnitsFailed,
		Failures:            failures,
		Error:               m.Error,
		CreatedAt:           m.CreatedAt,
		StartedAt:           m.StartedAt,
		FinishedAt:          m.FinishedAt,
	}, nil
}
