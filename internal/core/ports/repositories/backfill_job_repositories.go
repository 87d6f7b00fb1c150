package repositories

import (
	"context"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// BackfillJobReader defines read operations for backfill jobs
type BackfillJobReader interface {
	// FindJobByID retrieves a backfill job by its ID.
	FindJobByID(ctx context.Context, jobID string) (*domain.BackfillJob, error)
	// ListJobs retrieves recent jobs, newest first.
	ListJobs(ctx context.Context, limit int) ([]domain.BackfillJob, error)
}

// BackfillJobWriter defines write operations for backfill jobs
type BackfillJobWriter interface {
	// SaveJob persists a newly created job.
	SaveJob(ctx context.Context, job domain.BackfillJob) error
	// UpdateJob updates status, counters and failure log of an existing job.
	UpdateJob(ctx context.Context, job domain.BackfillJob) error
}

// BackfillJobRepository combines all backfill job repository interfaces
type BackfillJobRepository interface {
	BackfillJobReader
	BackfillJobWriter
}
