package services

import (
	"log/slog"

	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/metrics"
	"github.com/areyesv/fx-rates-service/internal/platform/config"
	"github.com/areyesv/fx-rates-service/internal/platform/taskrunner"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	runner *taskrunner.Runner,
	logger *slog.Logger,
	m *metrics.Metrics,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Provider = NewProviderService(repos.ProviderRepo)
	container.Resolver = NewResolverService(container.Provider, logger, m, cfg.AdapterTimeout)
	container.Rate = NewRateService(repos.ExchangeRateRepo, container.Resolver, container.Currency, logger)
	container.Converter = NewConverterService(container.Rate, logger)
	container.Backfill = NewBackfillService(
		repos.BackfillJobRepo,
		container.Rate,
		container.Currency,
		runner,
		logger,
		m,
		cfg.BackfillWorkers,
	)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.CurrencySvcFacade  = (*CurrencyService)(nil)
	_ portssvc.ProviderSvcFacade  = (*ProviderService)(nil)
	_ portssvc.RateResolverSvc    = (*ResolverService)(nil)
	_ portssvc.RateSvcFacade      = (*RateService)(nil)
	_ portssvc.ConverterSvcFacade = (*ConverterService)(nil)
	_ portssvc.BackfillSvcFacade  = (*BackfillService)(nil)
)
