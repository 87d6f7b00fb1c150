package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/middleware"
)

// providerHandler handles HTTP requests related to rate provider configuration.
type providerHandler struct {
	providerService portssvc.ProviderSvcFacade
}

// newProviderHandler creates a new providerHandler.
func newProviderHandler(ps portssvc.ProviderSvcFacade) *providerHandler {
	return &providerHandler{
		providerService: ps,
	}
}

// registerProviderRoutes registers routes related to providers.
func registerProviderRoutes(rg *gin.RouterGroup, providerService portssvc.ProviderSvcFacade) {
	h := newProviderHandler(providerService)

	providers := rg.Group("/providers")
	{
		providers.POST("", h.createProvider)
		providers.GET("", h.listProviders)
		providers.PUT("/:name", h.updateProvider)
	}
}

func (h *providerHandler) createProvider(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProvider", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create provider",
		slog.String("provider_name", req.Name),
		slog.String("adapter_key", req.AdapterKey),
	)

	createdProvider, err := h.providerService.CreateProvider(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate provider", slog.String("provider_name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Provider '%s' already exists", req.Name)})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating provider", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create provider in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create provider"})
		}
		return
	}

	logger.Info("Provider created successfully", slog.String("provider_name", createdProvider.Name))
	c.JSON(http.StatusCreated, dto.ToProviderResponse(createdProvider))
}

func (h *providerHandler) listProviders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	providers, err := h.providerService.ListProviders(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list providers from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list providers"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListProviderResponse(providers))
}

// updateProvider patches priority, enabled flag and config. The change
// affects the next resolution; in-flight resolutions keep their snapshot.
func (h *providerHandler) updateProvider(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProvider", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	provider, err := h.providerService.UpdateProvider(c.Request.Context(), name, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Provider not found for update", slog.String("provider_name", name))
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating provider", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update provider in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update provider"})
		}
		return
	}

	logger.Info("Provider updated successfully", slog.String("provider_name", name))
	c.JSON(http.StatusOK, dto.ToProviderResponse(provider))
}
