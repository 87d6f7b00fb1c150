// Package repositories defines the persistence interfaces consumed by the
// core services. Implementations live under
// internal/repositories/database/pgsql.
package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	CurrencyRepo     CurrencyRepository
	ProviderRepo     ProviderRepository
	ExchangeRateRepo ExchangeRateRepository
	BackfillJobRepo  BackfillJobRepository
}
