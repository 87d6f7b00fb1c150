// Package mockrates implements a deterministic offline ratesource adapter.
// Rates are derived from a fixed cross table with a date-seeded variation,
// so the same (pair, date) always yields the same rate. Useful for
// development and for running the pipeline without provider credentials.
package mockrates

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// AdapterKey is the identifier stored on Provider rows.
const AdapterKey = "mock"

const defaultVolatility = 0.05

func init() {
	ratesource.Register(AdapterKey, func(cfg ratesource.Config) (ratesource.Adapter, error) {
		return New(cfg), nil
	})
}

var baseRates = map[string]decimal.Decimal{
	"EUR/USD": decimal.RequireFromString("1.08"),
	"EUR/GBP": decimal.RequireFromString("0.86"),
	"EUR/CHF": decimal.RequireFromString("0.94"),
	"USD/EUR": decimal.RequireFromString("0.93"),
	"USD/GBP": decimal.RequireFromString("0.79"),
	"USD/CHF": decimal.RequireFromString("0.87"),
	"GBP/EUR": decimal.RequireFromString("1.16"),
	"GBP/USD": decimal.RequireFromString("1.27"),
	"GBP/CHF": decimal.RequireFromString("1.10"),
	"CHF/EUR": decimal.RequireFromString("1.06"),
	"CHF/USD": decimal.RequireFromString("1.15"),
	"CHF/GBP": decimal.RequireFromString("0.91"),
}

var defaultTargets = []string{"EUR", "USD", "GBP", "CHF"}

// Adapter generates pseudo-random but reproducible exchange rates.
type Adapter struct {
	volatility float64
	seed       int64
}

// New builds a mock adapter. Recognised config keys: volatility (float),
// seed (int, mixed into the per-date seed).
func New(cfg ratesource.Config) *Adapter {
	volatility := defaultVolatility
	if v, err := strconv.ParseFloat(cfg.Get("volatility", ""), 64); err == nil && v >= 0 {
		volatility = v
	}
	seed, _ := strconv.ParseInt(cfg.Get("seed", "0"), 10, 64)
	return &Adapter{volatility: volatility, seed: seed}
}

// Name implements ratesource.Adapter.
func (a *Adapter) Name() string { return "Mock Provider" }

func pairKey(source, target string) string {
	return source + "/" + target
}

// baseRate returns the cross-table rate for a pair, triangulating through
// EUR when no direct entry exists, or a seeded pseudo-random rate otherwise.
func (a *Adapter) baseRate(source, target string) decimal.Decimal {
	if rate, ok := baseRates[pairKey(source, target)]; ok {
		return rate
	}
	if source != "EUR" && target != "EUR" {
		toEUR, okFrom := baseRates[pairKey(source, "EUR")]
		fromEUR, okTo := baseRates[pairKey("EUR", target)]
		if okFrom && okTo {
			return toEUR.Mul(fromEUR)
		}
	}
	rng := rand.New(rand.NewSource(a.pairSeed(source, target, time.Time{})))
	return decimal.NewFromFloat(0.5 + rng.Float64()*1.5).Round(6)
}

func (a *Adapter) pairSeed(source, target string, date time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%s/%s", source, target, date.Format(time.DateOnly))
	return int64(h.Sum64()) ^ a.seed
}

// vary applies a bounded, date-deterministic variation to a base rate.
func (a *Adapter) vary(base decimal.Decimal, source, target string, date time.Time) decimal.Decimal {
	rng := rand.New(rand.NewSource(a.pairSeed(source, target, date)))
	variation := (rng.Float64()*2 - 1) * a.volatility
	factor := decimal.NewFromFloat(1 + variation)
	return base.Mul(factor).Round(6)
}

// FetchRate implements ratesource.Adapter.
func (a *Adapter) FetchRate(_ context.Context, source, target string, date time.Time) (ratesource.Quote, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	date = domain.DateOnly(date)

	rate := decimal.NewFromInt(1)
	if source != target {
		rate = a.vary(a.baseRate(source, target), source, target, date)
	}

	return ratesource.Quote{
		SourceCurrencyCode: source,
		TargetCurrencyCode: target,
		ValuationDate:      date,
		Rate:               rate,
		ProviderName:       a.Name(),
	}, nil
}

// FetchRatesForDate implements ratesource.Adapter.
func (a *Adapter) FetchRatesForDate(ctx context.Context, source string, date time.Time, targets []string) ([]ratesource.Quote, error) {
	source = strings.ToUpper(source)
	if len(targets) == 0 {
		targets = defaultTargets
	}

	quotes := make([]ratesource.Quote, 0, len(targets))
	for _, target := range targets {
		target = strings.ToUpper(target)
		if target == source {
			continue
		}
		quote, err := a.FetchRate(ctx, source, target, date)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
