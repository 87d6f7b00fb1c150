// Package currencybeacon implements a ratesource adapter for the
// CurrencyBeacon REST API (https://currencybeacon.com).
package currencybeacon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/ratesource"
)

// AdapterKey is the identifier stored on Provider rows.
const AdapterKey = "currencybeacon"

const (
	defaultBaseURL = "https://api.currencybeacon.com/v1"
	defaultTimeout = 30 * time.Second
)

func init() {
	ratesource.Register(AdapterKey, func(cfg ratesource.Config) (ratesource.Adapter, error) {
		return New(cfg)
	})
}

// Adapter calls the CurrencyBeacon /latest and /historical endpoints.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New builds a CurrencyBeacon adapter from provider config. Recognised
// keys: api_key (required), base_url, timeout.
func New(cfg ratesource.Config) (*Adapter, error) {
	apiKey := cfg.Get("api_key", "")
	if apiKey == "" {
		return nil, errors.New("currencybeacon: api_key not configured")
	}
	return &Adapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(cfg.Get("base_url", defaultBaseURL), "/"),
		client:  &http.Client{Timeout: cfg.Duration("timeout", defaultTimeout)},
	}, nil
}

// Name implements ratesource.Adapter.
func (a *Adapter) Name() string { return "CurrencyBeacon" }

// payload covers both response shapes CurrencyBeacon is known to return:
// rates at the top level or nested under "response".
type payload struct {
	Error    json.RawMessage    `json:"error"`
	Rates    map[string]float64 `json:"rates"`
	Response struct {
		Rates map[string]float64 `json:"rates"`
	} `json:"response"`
}

func (p *payload) rates() map[string]float64 {
	if len(p.Rates) > 0 {
		return p.Rates
	}
	return p.Response.Rates
}

func (a *Adapter) get(ctx context.Context, endpoint string, params url.Values) (*payload, error) {
	params.Set("api_key", a.apiKey)
	reqURL := a.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ratesource.ErrUnavailable, err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ratesource.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: authentication failed, invalid API key", ratesource.ErrUnavailable)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: endpoint not available on current plan", ratesource.ErrUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limit exceeded", ratesource.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: HTTP %d", ratesource.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ratesource.ErrUnavailable, err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ratesource.ErrInvalidResponse, err)
	}
	if len(p.Error) > 0 && string(p.Error) != "null" {
		return nil, fmt.Errorf("%w: API error: %s", ratesource.ErrUnavailable, p.Error)
	}
	return &p, nil
}

// fetchDate hits /latest for today (or clamped future dates) and
// /historical otherwise.
func (a *Adapter) fetchDate(ctx context.Context, source string, date time.Time) (*payload, time.Time, error) {
	today := domain.Today()
	if date.After(today) {
		// The API has no data past today; use the latest rate instead.
		date = today
	}

	params := url.Values{"base": []string{source}}
	if date.Before(today) {
		params.Set("date", date.Format(time.DateOnly))
		p, err := a.get(ctx, "/historical", params)
		return p, date, err
	}
	p, err := a.get(ctx, "/latest", params)
	return p, today, err
}

// FetchRate implements ratesource.Adapter.
func (a *Adapter) FetchRate(ctx context.Context, source, target string, date time.Time) (ratesource.Quote, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	date = domain.DateOnly(date)

	if source == target {
		return ratesource.Quote{
			SourceCurrencyCode: source,
			TargetCurrencyCode: target,
			ValuationDate:      date,
			Rate:               decimal.NewFromInt(1),
			ProviderName:       a.Name(),
		}, nil
	}

	p, actualDate, err := a.fetchDate(ctx, source, date)
	if err != nil {
		return ratesource.Quote{}, err
	}

	rates := p.rates()
	if len(rates) == 0 {
		return ratesource.Quote{}, fmt.Errorf("%w: no rates in payload", ratesource.ErrInvalidResponse)
	}
	value, ok := rates[target]
	if !ok {
		return ratesource.Quote{}, fmt.Errorf("%w: %s->%s on %s", ratesource.ErrNotSupported, source, target, date.Format(time.DateOnly))
	}

	return ratesource.Quote{
		SourceCurrencyCode: source,
		TargetCurrencyCode: target,
		ValuationDate:      actualDate,
		Rate:               decimal.NewFromFloat(value),
		ProviderName:       a.Name(),
	}, nil
}

// FetchRatesForDate implements ratesource.Adapter. One API call covers all
// targets for a date; unknown targets are simply absent from the result.
func (a *Adapter) FetchRatesForDate(ctx context.Context, source string, date time.Time, targets []string) ([]ratesource.Quote, error) {
	source = strings.ToUpper(source)
	date = domain.DateOnly(date)

	p, actualDate, err := a.fetchDate(ctx, source, date)
	if err != nil {
		return nil, err
	}

	rates := p.rates()
	if len(rates) == 0 {
		return nil, fmt.Errorf("%w: no rates in payload", ratesource.ErrInvalidResponse)
	}

	var wanted map[string]bool
	if len(targets) > 0 {
		wanted = make(map[string]bool, len(targets))
		for _, t := range targets {
			wanted[strings.ToUpper(t)] = true
		}
	}

	quotes := make([]ratesource.Quote, 0, len(rates))
	for code, value := range rates {
		if code == source {
			continue
		}
		if wanted != nil && !wanted[code] {
			continue
		}
		quotes = append(quotes, ratesource.Quote{
			SourceCurrencyCode: source,
			TargetCurrencyCode: code,
			ValuationDate:      actualDate,
			Rate:               decimal.NewFromFloat(value),
			ProviderName:       a.Name(),
		})
	}
	return quotes, nil
}
