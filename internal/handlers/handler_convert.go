package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/middleware"
)

// convertHandler handles HTTP requests for currency conversion.
type convertHandler struct {
	converterService portssvc.ConverterSvcFacade
}

// newConvertHandler creates a new convertHandler.
func newConvertHandler(cs portssvc.ConverterSvcFacade) *convertHandler {
	return &convertHandler{
		converterService: cs,
	}
}

// registerConvertRoutes registers the conversion route.
func registerConvertRoutes(rg *gin.RouterGroup, converterService portssvc.ConverterSvcFacade) {
	h := newConvertHandler(converterService)

	rg.POST("/convert", h.convert)
}

// convert converts an amount from the source currency to one or more
// targets. Targets that cannot be converted are reported in the errors map
// without failing the whole request.
func (h *convertHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	conversions, failures, err := h.converterService.ConvertMany(
		c.Request.Context(), req.SourceCurrencyCode, req.TargetCurrencyCodes, req.Amount, date)
	if err != nil {
		logger.Error("Failed to convert", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert"})
		return
	}

	resp := dto.ConvertManyResponse{
		Conversions: make(map[string]dto.ConversionResponse, len(conversions)),
	}
	for target, conversion := range conversions {
		resp.Conversions[target] = dto.ToConversionResponse(&conversion)
	}
	if len(failures) > 0 {
		resp.Errors = failures
	}

	logger.Info("Conversion completed",
		slog.String("source", req.SourceCurrencyCode),
		slog.Int("succeeded", len(conversions)),
		slog.Int("failed", len(failures)),
	)
	c.JSON(http.StatusOK, resp)
}
