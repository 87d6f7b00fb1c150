package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/middleware"
)

// rateHandler handles HTTP requests for rate lookup and period listing.
type rateHandler struct {
	rateService     portssvc.RateSvcFacade
	resolverService portssvc.RateResolverSvc
	backfillService portssvc.BackfillSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade, resolver portssvc.RateResolverSvc, bs portssvc.BackfillSvcFacade) *rateHandler {
	return &rateHandler{
		rateService:     rs,
		resolverService: resolver,
		backfillService: bs,
	}
}

// registerRateRoutes registers routes related to exchange rates.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, resolver portssvc.RateResolverSvc, backfillService portssvc.BackfillSvcFacade) {
	h := newRateHandler(rateService, resolver, backfillService)

	rates := rg.Group("/rates")
	{
		rates.GET("/:source", h.listRatesForPeriod)
		rates.GET("/:source/:target", h.getRate)
		rates.POST("/:source/refresh", h.refreshLatest)
	}
}

// parseDateParam parses an optional YYYY-MM-DD query param, defaulting to today.
func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return domain.Today(), true
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be formatted as YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

// respondRateError maps service errors to HTTP responses shared by the rate
// and conversion endpoints.
func respondRateError(c *gin.Context, logger *slog.Logger, err error) {
	var exhausted *apperrors.ExhaustedError
	switch {
	case errors.Is(err, apperrors.ErrUnknownCurrency):
		logger.Warn("Unknown currency in rate request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error in rate request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidRange):
		logger.Warn("Invalid date range in rate request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &exhausted):
		logger.Warn("All providers exhausted", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "no rate available: all providers failed",
			"failures": exhausted.Failures,
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Rate not found"})
	default:
		logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve rate"})
	}
}

// getRate returns the rate for a pair on a date (today when omitted). The
// optional provider query param pins the resolution to one provider,
// bypassing both the store and the fallback chain.
func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	source := strings.ToUpper(c.Param("source"))
	target := strings.ToUpper(c.Param("target"))

	if len(source) != 3 || len(target) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	if providerName := c.Query("provider"); providerName != "" {
		quote, err := h.resolverService.ResolveWithProvider(c.Request.Context(), providerName, source, target, date)
		if err != nil {
			respondRateError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, dto.ExchangeRateResponse{
			SourceCurrencyCode: quote.SourceCurrencyCode,
			TargetCurrencyCode: quote.TargetCurrencyCode,
			Rate:               quote.Rate,
			ValuationDate:      quote.ValuationDate.Format(time.DateOnly),
			ProviderName:       quote.ProviderName,
		})
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), source, target, date)
	if err != nil {
		respondRateError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// listRatesForPeriod lists stored rates for a source within an inclusive
// date window. Targets is an optional comma-separated filter.
func (h *rateHandler) listRatesForPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	source := strings.ToUpper(c.Param("source"))

	if len(source) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return
	}

	from, ok := parseDateParam(c, "date_from")
	if !ok {
		return
	}
	to, ok := parseDateParam(c, "date_to")
	if !ok {
		return
	}

	var targets []string
	if raw := c.Query("targets"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				targets = append(targets, strings.ToUpper(t))
			}
		}
	}

	rates, err := h.rateService.GetRatesForPeriod(c.Request.Context(), source, from, to, targets)
	if err != nil {
		respondRateError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// refreshLatest fetches today's rates for the source against all active
// currencies (or the comma-separated targets filter), synchronously.
func (h *rateHandler) refreshLatest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	source := strings.ToUpper(c.Param("source"))

	if len(source) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency code must be 3 letters"})
		return
	}

	var targets []string
	if raw := c.Query("targets"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				targets = append(targets, strings.ToUpper(t))
			}
		}
	}

	result, err := h.backfillService.RefreshLatest(c.Request.Context(), source, targets)
	if err != nil {
		respondRateError(c, logger, err)
		return
	}

	logger.Info("Latest rates refreshed",
		slog.String("source", source),
		slog.Int("succeeded", result.UnitsSucceeded),
		slog.Int("failed", result.UnitsFailed),
	)
	c.JSON(http.StatusOK, gin.H{
		"status":         string(result.Status),
		"unitsAttempted": result.UnitsAttempted,
		"unitsSucceeded": result.UnitsSucceeded,
		"unitsFailed":    result.UnitsFailed,
	})
}
