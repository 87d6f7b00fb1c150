// Package ratesource defines the contract implemented by external exchange
// rate sources. Adapters are stateless with respect to rates: caching and
// persistence are the caller's concern.
package ratesource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single exchange rate fetched from a provider.
type Quote struct {
	SourceCurrencyCode string
	TargetCurrencyCode string
	ValuationDate      time.Time
	Rate               decimal.Decimal
	ProviderName       string
}

// Adapter failure taxonomy. Callers match with errors.Is; anything else an
// adapter returns is treated as Unavailable by Classify.
var (
	// ErrNotSupported: the currency pair or date is outside the provider's coverage.
	ErrNotSupported = errors.New("rate not supported by provider")
	// ErrUnavailable: the provider could not be reached or refused the call
	// (network, auth, rate limit, timeout).
	ErrUnavailable = errors.New("provider unavailable")
	// ErrInvalidResponse: the provider answered with a payload we cannot parse.
	ErrInvalidResponse = errors.New("invalid provider response")
)

// FailureKind is the classified failure category of an adapter error,
// recorded per provider for resolution diagnostics.
type FailureKind string

const (
	KindNotSupported    FailureKind = "not_supported"
	KindUnavailable     FailureKind = "unavailable"
	KindInvalidResponse FailureKind = "invalid_response"
)

// Classify maps an adapter error to its failure kind.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrNotSupported):
		return KindNotSupported
	case errors.Is(err, ErrInvalidResponse):
		return KindInvalidResponse
	default:
		return KindUnavailable
	}
}

// Adapter is a client for one external rate source. Implementations must be
// safe for concurrent use; the backfill pipeline calls them from multiple
// workers.
type Adapter interface {
	// Name returns the human-readable provider name stamped on quotes.
	Name() string

	// FetchRate returns the rate for one currency pair on a calendar date.
	FetchRate(ctx context.Context, source, target string, date time.Time) (Quote, error)

	// FetchRatesForDate returns rates from source to each target on a date.
	// A nil targets slice means every currency the provider covers.
	FetchRatesForDate(ctx context.Context, source string, date time.Time, targets []string) ([]Quote, error)
}

// Config is the opaque per-provider configuration stored on a Provider row.
type Config map[string]string

// Get returns the configured value for key, or def when absent or empty.
func (c Config) Get(key, def string) string {
	if v, ok := c[key]; ok && v != "" {
		return v
	}
	return def
}

// Duration parses the configured value for key as a time.Duration,
// falling back to def when absent or malformed.
func (c Config) Duration(key string, def time.Duration) time.Duration {
	v, ok := c[key]
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Factory builds an adapter from its stored configuration.
type Factory func(cfg Config) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an adapter constructor available under the given key.
// It is intended to be called from adapter package init functions and
// panics on duplicate registration.
func Register(key string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[key]; dup {
		panic("ratesource: duplicate adapter registration for " + key)
	}
	registry[key] = factory
}

// New instantiates the adapter registered under key with the given config.
func New(key string, cfg Config) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[key]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("ratesource: unknown adapter %q", key)
	}
	return factory(cfg)
}

// Known reports whether an adapter is registered under key.
func Known(key string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[key]
	return ok
}

// Keys returns the registered adapter identifiers, sorted.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
