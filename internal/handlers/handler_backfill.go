package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/middleware"
)

// defaultJobListLimit bounds the backfill job listing when no limit is given.
const defaultJobListLimit = 20

// backfillHandler handles HTTP requests for backfill job management.
type backfillHandler struct {
	backfillService portssvc.BackfillSvcFacade
}

// newBackfillHandler creates a new backfillHandler.
func newBackfillHandler(bs portssvc.BackfillSvcFacade) *backfillHandler {
	return &backfillHandler{
		backfillService: bs,
	}
}

// registerBackfillRoutes registers routes related to backfill jobs.
func registerBackfillRoutes(rg *gin.RouterGroup, backfillService portssvc.BackfillSvcFacade) {
	h := newBackfillHandler(backfillService)

	jobs := rg.Group("/backfill-jobs")
	{
		jobs.POST("", h.submitJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/:id", h.getJob)
	}
}

// submitJob accepts a backfill request, persists a pending job and returns
// 202 with the job handle. The job runs asynchronously; the client polls by ID.
func (h *backfillHandler) submitJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBackfillJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitBackfillJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received backfill job submission",
		slog.String("source", req.SourceCurrencyCode),
		slog.String("from", req.DateFrom),
		slog.String("to", req.DateTo),
	)

	job, err := h.backfillService.Submit(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidRange),
			errors.Is(err, apperrors.ErrUnknownCurrency),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid backfill job submission", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to submit backfill job", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit backfill job"})
		}
		return
	}

	logger.Info("Backfill job accepted", slog.String("job_id", job.JobID))
	c.JSON(http.StatusAccepted, dto.ToBackfillJobResponse(job))
}

func (h *backfillHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	jobID := c.Param("id")

	job, err := h.backfillService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Backfill job not found"})
		} else {
			logger.Error("Failed to get backfill job", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve backfill job"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBackfillJobResponse(job))
}

func (h *backfillHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit := defaultJobListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	jobs, err := h.backfillService.ListJobs(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to list backfill jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list backfill jobs"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBackfillJobResponse(jobs))
}
