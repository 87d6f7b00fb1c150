package mockrates_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/areyesv/fx-rates-service/internal/ratesource"
	"github.com/areyesv/fx-rates-service/internal/ratesource/mockrates"
)

func TestFetchRate_DeterministicPerDate(t *testing.T) {
	adapter := mockrates.New(ratesource.Config{})
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	first, err := adapter.FetchRate(ctx, "EUR", "USD", date)
	require.NoError(t, err)
	second, err := adapter.FetchRate(ctx, "EUR", "USD", date)
	require.NoError(t, err)

	assert.True(t, first.Rate.Equal(second.Rate), "same pair and date must yield the same rate")
	assert.Equal(t, "EUR", first.SourceCurrencyCode)
	assert.Equal(t, "USD", first.TargetCurrencyCode)
	assert.True(t, first.ValuationDate.Equal(date))
}

func TestFetchRate_VariesAcrossDates(t *testing.T) {
	adapter := mockrates.New(ratesource.Config{})
	ctx := context.Background()

	a, err := adapter.FetchRate(ctx, "EUR", "USD", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	b, err := adapter.FetchRate(ctx, "EUR", "USD", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.False(t, a.Rate.Equal(b.Rate), "different dates should vary the rate")
}

func TestFetchRate_SameCurrencyIsOne(t *testing.T) {
	adapter := mockrates.New(ratesource.Config{})

	quote, err := adapter.FetchRate(context.Background(), "usd", "USD", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "1", quote.Rate.String())
}

func TestFetchRate_ZeroVolatilityReturnsBaseRate(t *testing.T) {
	adapter := mockrates.New(ratesource.Config{"volatility": "0"})
	ctx := context.Background()

	a, err := adapter.FetchRate(ctx, "EUR", "USD", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	b, err := adapter.FetchRate(ctx, "EUR", "USD", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, a.Rate.Equal(b.Rate), "zero volatility pins the rate to the base table")
}

func TestFetchRate_TriangulatesThroughEUR(t *testing.T) {
	adapter := mockrates.New(ratesource.Config{"volatility": "0"})

	quote, err := adapter.FetchRate(context.Background(), "USD", "CHF", time.Now())
	require.NoError(t, err)
	assert.True(t, quote.Rate.IsPositive())
}

func TestFetchRatesForDate_SkipsSourceAndDefaultsTargets(t *testing.T) {
	adapter := mockrates.New(ratesource.Config{})

	quotes, err := adapter.FetchRatesForDate(context.Background(), "EUR", time.Now(), nil)
	require.NoError(t, err)
	require.Len(t, quotes, 3) // USD, GBP, CHF; EUR itself skipped
	for _, q := range quotes {
		assert.NotEqual(t, "EUR", q.TargetCurrencyCode)
	}
}

func TestRegisteredWithFactory(t *testing.T) {
	assert.True(t, ratesource.Known(mockrates.AdapterKey))

	adapter, err := ratesource.New(mockrates.AdapterKey, ratesource.Config{"seed": "42"})
	require.NoError(t, err)
	assert.Equal(t, "Mock Provider", adapter.Name())
}
