package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
)

// outputPrecision is the number of decimal places in converted amounts.
// Rates keep full precision; rounding happens only at output.
const outputPrecision = 2

// ConverterService converts amounts between currencies using stored or
// freshly resolved rates.
type ConverterService struct {
	rateSvc portssvc.RateSvcFacade
	logger  *slog.Logger
}

// NewConverterService creates a new ConverterService.
func NewConverterService(rateSvc portssvc.RateSvcFacade, logger *slog.Logger) *ConverterService {
	return &ConverterService{rateSvc: rateSvc, logger: logger}
}

// Convert converts amount from source to target on the given date (today
// when zero). All rates are direct source->target; there is no cross
// triangulation.
func (s *ConverterService) Convert(ctx context.Context, source, target string, amount decimal.Decimal, date time.Time) (*domain.Conversion, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	if date.IsZero() {
		date = domain.Today()
	}
	date = domain.DateOnly(date)

	if source == target {
		return &domain.Conversion{
			SourceCurrencyCode: source,
			TargetCurrencyCode: target,
			OriginalAmount:     amount,
			ConvertedAmount:    amount.Round(outputPrecision),
			Rate:               decimal.NewFromInt(1),
			ValuationDate:      date,
		}, nil
	}

	rate, err := s.rateSvc.GetRateOrLatest(ctx, source, target, date)
	if err != nil {
		return nil, err
	}

	return &domain.Conversion{
		SourceCurrencyCode: source,
		TargetCurrencyCode: target,
		OriginalAmount:     amount,
		ConvertedAmount:    amount.Mul(rate.Rate).Round(outputPrecision),
		Rate:               rate.Rate,
		ValuationDate:      rate.ValuationDate,
	}, nil
}

// ConvertMany converts amount from source to each target. Targets that
// cannot be converted land in the second map with their failure reason;
// successful targets are unaffected.
func (s *ConverterService) ConvertMany(ctx context.Context, source string, targets []string, amount decimal.Decimal, date time.Time) (map[string]domain.Conversion, map[string]string, error) {
	conversions := make(map[string]domain.Conversion, len(targets))
	failures := make(map[string]string)

	for _, target := range targets {
		target = strings.ToUpper(target)
		conversion, err := s.Convert(ctx, source, target, amount, date)
		if err != nil {
			s.logger.Warn("Conversion target failed",
				slog.String("pair", strings.ToUpper(source)+"/"+target),
				slog.String("error", err.Error()),
			)
			failures[target] = err.Error()
			continue
		}
		conversions[target] = *conversion
	}

	return conversions, failures, nil
}
