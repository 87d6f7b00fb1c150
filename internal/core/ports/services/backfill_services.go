package services

import (
	"context"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
	"github.com/areyesv/fx-rates-service/internal/dto"
)

// BackfillRunnerSvc is the synchronous pipeline: it validates the range,
// fans units out over the worker pool and aggregates the result. It is
// invoked asynchronously by the submitting layer.
type BackfillRunnerSvc interface {
	// Run executes the job in the calling goroutine and returns the
	// aggregate result. Unit failures never fail the run; only invalid
	// input (apperrors.ErrInvalidRange, apperrors.ErrUnknownCurrency) does.
	Run(ctx context.Context, job domain.BackfillJob) (domain.BackfillResult, error)
}

// BackfillJobSvc is the async seam: submission returns a pending job handle
// immediately; status is polled by ID.
type BackfillJobSvc interface {
	Submit(ctx context.Context, req dto.CreateBackfillJobRequest) (*domain.BackfillJob, error)
	GetJob(ctx context.Context, jobID string) (*domain.BackfillJob, error)
	ListJobs(ctx context.Context, limit int) ([]domain.BackfillJob, error)

	// RefreshLatest fetches today's rates for the source against the given
	// targets (all active currencies when empty), reusing the pipeline with
	// a one-day range.
	RefreshLatest(ctx context.Context, source string, targets []string) (domain.BackfillResult, error)
}

// BackfillSvcFacade combines pipeline and job management interfaces
type BackfillSvcFacade interface {
	BackfillRunnerSvc
	BackfillJobSvc
}
