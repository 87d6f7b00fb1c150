package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	"github.com/areyesv/fx-rates-service/internal/models"
	"github.com/areyesv/fx-rates-service/internal/utils/mapping"
)

type PgxBackfillJobRepository struct {
	BaseRepository
}

// newPgxBackfillJobRepository creates a new repository for backfill jobs.
func newPgxBackfillJobRepository(pool *pgxpool.Pool) portsrepo.BackfillJobRepository {
	return &PgxBackfillJobRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.BackfillJobRepository = (*PgxBackfillJobRepository)(nil)

func scanBackfillJob(row pgx.Row) (models.BackfillJob, error) {
	var job models.BackfillJob
	err := row.Scan(
		&job.JobID,
		&job.SourceCurrencyCode,
		&job.TargetCurrencyCodes,
		&job.DateFrom,
		&job.DateTo,
		&job.Status,
		&job.UnitsAttempted,
		&job.UnitsSucceeded,
		&job.UnitsFailed,
		&job.Failures,
		&job.Error,
		&job.CreatedAt,
		&job.StartedAt,
		&job.FinishedAt,
	)
	return job, err
}

// SaveJob persists a newly created job.
func (r *PgxBackfillJobRepository) SaveJob(ctx context.Context, job domain.BackfillJob) error {
	modelJob, err := mapping.ToModelBackfillJob(job)
	if err != nil {
		return fmt.Errorf("failed to marshal backfill job: %w", err)
	}

	query := `
		INSERT INTO backfill_jobs (job_id, source_currency_code, target_currency_codes, date_from, date_to, status, units_attempted, units_succeeded, units_failed, failures, error, created_at, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`

	_, err = r.Pool.Exec(ctx, query,
		modelJob.JobID,
		modelJob.SourceCurrencyCode,
		modelJob.TargetCurrencyCodes,
		modelJob.DateFrom,
		modelJob.DateTo,
		modelJob.Status,
		modelJob.UnitsAttempted,
		modelJob.UnitsSucceeded,
		modelJob.UnitsFailed,
		modelJob.Failures,
		modelJob.Error,
		modelJob.CreatedAt,
		modelJob.StartedAt,
		modelJob.FinishedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save backfill job %s: %w", modelJob.JobID, err)
	}
	return nil
}

// UpdateJob updates status, counters and failure log of an existing job.
func (r *PgxBackfillJobRepository) UpdateJob(ctx context.Context, job domain.BackfillJob) error {
	modelJob, err := mapping.ToModelBackfillJob(job)
	if err != nil {
		return fmt.Errorf("failed to marshal backfill job: %w", err)
	}

	query := `
		UPDATE backfill_jobs
		SET status = $2, units_attempted = $3, units_succeeded = $4, units_failed = $5,
		    failures = $6, error = $7, started_at = $8, finished_at = $9
		WHERE job_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelJob.JobID,
		modelJob.Status,
		modelJob.UnitsAttempted,
		modelJob.UnitsSucceeded,
		modelJob.UnitsFailed,
		modelJob.Failures,
		modelJob.Error,
		modelJob.StartedAt,
		modelJob.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update backfill job %s: %w", modelJob.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindJobByID retrieves a backfill job by its ID.
func (r *PgxBackfillJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.BackfillJob, error) {
	query := `
		SELECT job_id, source_currency_code, target_currency_codes, date_from, date_to, status, units_attempted, units_succeeded, units_failed, failures, error, created_at, started_at, finished_at
		FROM backfill_jobs
		WHERE job_id = $1;
	`
	modelJob, err := scanBackfillJob(r.Pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find backfill job %s: %w", jobID, err)
	}

	domainJob, err := mapping.ToDomainBackfillJob(modelJob)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal backfill job %s: %w", jobID, err)
	}
	return &domainJob, nil
}

// ListJobs retrieves recent jobs, newest first.
func (r *PgxBackfillJobRepository) ListJobs(ctx context.Context, limit int) ([]domain.BackfillJob, error) {
	query := `
		SELECT job_id, source_currency_code, target_currency_codes, date_from, date_to, status, units_attempted, units_succeeded, units_failed, failures, error, created_at, started_at, finished_at
		FROM backfill_jobs
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backfill jobs: %w", err)
	}
	defer rows.Close()

	modelJobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BackfillJob, error) {
		return scanBackfillJob(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan backfill jobs: %w", err)
	}

	domainJobs := make([]domain.BackfillJob, len(modelJobs))
	for i, m := range modelJobs {
		domainJobs[i], err = mapping.ToDomainBackfillJob(m)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal backfill job %s: %w", m.JobID, err)
		}
	}
	return domainJobs, nil
}
