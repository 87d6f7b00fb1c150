package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ProviderRepo:     newPgxProviderRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		BackfillJobRepo:  newPgxBackfillJobRepository(dbPool),
	}
}
