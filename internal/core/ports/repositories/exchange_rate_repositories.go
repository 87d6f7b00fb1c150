package repositories

import (
	"context"
	"time"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// ExchangeRateReader defines read operations for stored rates
type ExchangeRateReader interface {
	// FindRateByDate retrieves the stored rate for a pair on an exact
	// calendar date. Returns apperrors.ErrNotFound when absent.
	FindRateByDate(ctx context.Context, source, target string, date time.Time) (*domain.ExchangeRate, error)
	// FindLatestRate retrieves the most recent stored rate for a pair on or
	// before the given date.
	FindLatestRate(ctx context.Context, source, target string, onOrBefore time.Time) (*domain.ExchangeRate, error)
	// ListRatesForPeriod retrieves stored rates for a source currency within
	// an inclusive date window, optionally filtered to specific targets,
	// ordered by date then target.
	ListRatesForPeriod(ctx context.Context, source string, from, to time.Time, targets []string) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for stored rates
type ExchangeRateWriter interface {
	// UpsertRate inserts or overwrites the rate for its
	// (source, target, valuation date) key. The write is idempotent and safe
	// under concurrent calls; concurrent writes to the same key resolve
	// last-writer-wins.
	UpsertRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepository combines all rate store interfaces
type ExchangeRateRepository interface {
	ExchangeRateReader
	ExchangeRateWriter
}
