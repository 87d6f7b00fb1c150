package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/areyesv/fx-rates-service/internal/apperrors"
	"github.com/areyesv/fx-rates-service/internal/core/domain"
	portsrepo "github.com/areyesv/fx-rates-service/internal/core/ports/repositories"
	portssvc "github.com/areyesv/fx-rates-service/internal/core/ports/services"
	"github.com/areyesv/fx-rates-service/internal/dto"
	"github.com/areyesv/fx-rates-service/internal/metrics"
	"github.com/areyesv/fx-rates-service/internal/platform/taskrunner"
)

// defaultWorkers bounds the backfill worker pool when no explicit count is
// configured. Bounded concurrency keeps the load on external providers
// within their rate limits.
const defaultWorkers = 4

// BackfillService runs bulk historical rate loads: one fetch unit per
// (calendar day, target currency), executed under a fixed-size worker pool
// with partial-failure tolerance.
type BackfillService struct {
	jobRepo     portsrepo.BackfillJobRepository
	rateSvc     portssvc.RateSvcFacade
	currencySvc portssvc.CurrencyReaderSvc
	runner      *taskrunner.Runner
	logger      *slog.Logger
	metrics     *metrics.Metrics
	workers     int
}

// NewBackfillService creates a new BackfillService. workers <= 0 falls back
// to the default pool size.
func NewBackfillService(
	jobRepo portsrepo.BackfillJobRepository,
	rateSvc portssvc.RateSvcFacade,
	currencySvc portssvc.CurrencyReaderSvc,
	runner *taskrunner.Runner,
	logger *slog.Logger,
	m *metrics.Metrics,
	workers int,
) *BackfillService {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &BackfillService{
		jobRepo:     jobRepo,
		rateSvc:     rateSvc,
		currencySvc: currencySvc,
		runner:      runner,
		logger:      logger,
		metrics:     m,
		workers:     workers,
	}
}

// unit is one independent fetch: a single (date, target) pair.
type unit struct {
	date   time.Time
	target string
}

type unitResult struct {
	unit unit
	err  error
}

// prepare validates the job input and returns the normalized job. All
// validation happens here, before a single unit is scheduled.
func (s *BackfillService) prepare(ctx context.Context, job domain.BackfillJob) (domain.BackfillJob, error) {
	job.SourceCurrencyCode = strings.ToUpper(job.SourceCurrencyCode)
	job.DateFrom = domain.DateOnly(job.DateFrom)
	job.DateTo = domain.DateOnly(job.DateTo)

	if job.DateFrom.After(job.DateTo) {
		return job, fmt.Errorf("%w: %s is after %s", apperrors.ErrInvalidRange,
			job.DateFrom.Format(time.DateOnly), job.DateTo.Format(time.DateOnly))
	}
	if _, err := s.currencySvc.RequireActiveCurrency(ctx, job.SourceCurrencyCode); err != nil {
		return job, err
	}

	if len(job.TargetCurrencyCodes) == 0 {
		// "All" expands to the active currencies at validation time.
		currencies, err := s.currencySvc.ListCurrencies(ctx, true)
		if err != nil {
			return job, fmt.Errorf("failed to expand target currencies: %w", err)
		}
		for _, c := range currencies {
			if c.CurrencyCode != job.SourceCurrencyCode {
				job.TargetCurrencyCodes = append(job.TargetCurrencyCodes, c.CurrencyCode)
			}
		}
	} else {
		seen := make(map[string]bool, len(job.TargetCurrencyCodes))
		targets := make([]string, 0, len(job.TargetCurrencyCodes))
		for _, t := range job.TargetCurrencyCodes {
			t = strings.ToUpper(t)
			if t == job.SourceCurrencyCode || seen[t] {
				continue
			}
			if _, err := s.currencySvc.RequireActiveCurrency(ctx, t); err != nil {
				return job, err
			}
			seen[t] = true
			targets = append(targets, t)
		}
		job.TargetCurrencyCodes = targets
	}

	if len(job.TargetCurrencyCodes) == 0 {
		return job, fmt.Errorf("%w: no target currencies to backfill", apperrors.ErrValidation)
	}
	sort.Strings(job.TargetCurrencyCodes)
	return job, nil
}

func buildUnits(job domain.BackfillJob) []unit {
	var units []unit
	for d := job.DateFrom; !d.After(job.DateTo); d = d.AddDate(0, 0, 1) {
		for _, target := range job.TargetCurrencyCodes {
			units = append(units, unit{date: d, target: target})
		}
	}
	return units
}

// Run executes the pipeline synchronously: validate, fan units out over the
// worker pool, aggregate. A failed unit is recorded and never aborts the
// others; only invalid input fails the whole run, and it does so before any
// unit is scheduled. Cancelling ctx stops scheduling new units while
// in-flight units run to completion.
func (s *BackfillService) Run(ctx context.Context, job domain.BackfillJob) (domain.BackfillResult, error) {
	job, err := s.prepare(ctx, job)
	if err != nil {
		return domain.BackfillResult{Status: domain.BackfillFailed}, err
	}

	units := buildUnits(job)
	s.logger.Info("Backfill starting",
		slog.String("source", job.SourceCurrencyCode),
		slog.String("from", job.DateFrom.Format(time.DateOnly)),
		slog.String("to", job.DateTo.Format(time.DateOnly)),
		slog.Int("targets", len(job.TargetCurrencyCodes)),
		slog.Int("units", len(units)),
		slog.Int("workers", s.workers),
	)

	unitCh := make(chan unit)
	resultCh := make(chan unitResult, len(units))

	// Feeder: stops handing out units as soon as ctx is cancelled.
	go func() {
		defer close(unitCh)
		for _, u := range units {
			select {
			case <-ctx.Done():
				return
			case unitCh <- u:
			}
		}
	}()

	// In-flight units are allowed to finish after cancellation, so workers
	// fetch with a context detached from ctx's cancellation.
	unitCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range unitCh {
				_, err := s.rateSvc.GetRate(unitCtx, job.SourceCurrencyCode, u.target, u.date)
				resultCh <- unitResult{unit: u, err: err}
			}
		}()
	}
	wg.Wait()
	close(resultCh)

	result := domain.BackfillResult{}
	for r := range resultCh {
		result.UnitsAttempted++
		if r.err != nil {
			result.UnitsFailed++
			s.metrics.BackfillUnitsTotal.WithLabelValues("failure").Inc()
			result.Failures = append(result.Failures, domain.BackfillUnitFailure{
				ValuationDate:      r.unit.date,
				TargetCurrencyCode: r.unit.target,
				Reason:             r.err.Error(),
			})
		} else {
			result.UnitsSucceeded++
			s.metrics.BackfillUnitsTotal.WithLabelValues("success").Inc()
		}
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		a, b := result.Failures[i], result.Failures[j]
		if !a.ValuationDate.Equal(b.ValuationDate) {
			return a.ValuationDate.Before(b.ValuationDate)
		}
		return a.TargetCurrencyCode < b.TargetCurrencyCode
	})

	if result.UnitsFailed == 0 && result.UnitsAttempted == len(units) {
		result.Status = domain.BackfillCompleted
	} else {
		result.Status = domain.BackfillCompletedWithErrors
	}

	s.logger.Info("Backfill finished",
		slog.String("source", job.SourceCurrencyCode),
		slog.String("status", string(result.Status)),
		slog.Int("attempted", result.UnitsAttempted),
		slog.Int("succeeded", result.UnitsSucceeded),
		slog.Int("failed", result.UnitsFailed),
	)
	return result, nil
}

// Submit validates the request, persists a pending job and schedules it on
// the async runner. The returned job is the handle the caller polls.
func (s *BackfillService) Submit(ctx context.Context, req dto.CreateBackfillJobRequest) (*domain.BackfillJob, error) {
	dateFrom, err := time.Parse(time.DateOnly, req.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dateFrom: %v", apperrors.ErrValidation, err)
	}
	dateTo, err := time.Parse(time.DateOnly, req.DateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dateTo: %v", apperrors.ErrValidation, err)
	}

	job := domain.BackfillJob{
		JobID:               uuid.NewString(),
		SourceCurrencyCode:  req.SourceCurrencyCode,
		TargetCurrencyCodes: req.TargetCurrencyCodes,
		DateFrom:            dateFrom,
		DateTo:              dateTo,
		Status:              domain.BackfillPending,
		CreatedAt:           time.Now(),
	}

	// Reject structurally invalid jobs at submission, before persisting.
	job, err = s.prepare(ctx, job)
	if err != nil {
		return nil, err
	}

	if err := s.jobRepo.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist backfill job: %w", err)
	}

	submitted := s.runner.Submit("backfill:"+job.JobID, func(runCtx context.Context) {
		s.execute(runCtx, job)
	})
	if !submitted {
		return nil, fmt.Errorf("task runner is shut down")
	}
	return &job, nil
}

// execute runs a persisted job on the runner goroutine, tracking status
// transitions in the job repository.
func (s *BackfillService) execute(ctx context.Context, job domain.BackfillJob) {
	logger := s.logger.With(slog.String("job_id", job.JobID))

	started := time.Now()
	job.Status = domain.BackfillRunning
	job.StartedAt = &started
	if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
		logger.Error("Failed to mark job running", slog.String("error", err.Error()))
	}

	result, err := s.Run(ctx, job)
	if err != nil {
		job.Status = domain.BackfillFailed
		job.Error = err.Error()
	} else {
		job.Status = result.Status
		job.UnitsAttempted = result.UnitsAttempted
		job.UnitsSucceeded = result.UnitsSucceeded
		job.UnitsFailed = result.UnitsFailed
		job.Failures = result.Failures
	}

	finished := time.Now()
	job.FinishedAt = &finished
	s.metrics.BackfillJobsTotal.WithLabelValues(string(job.Status)).Inc()

	// Status updates run on a detached context so a cancelled job still
	// records its terminal state.
	if err := s.jobRepo.UpdateJob(context.WithoutCancel(ctx), job); err != nil {
		logger.Error("Failed to persist job result", slog.String("error", err.Error()))
	}
}

// GetJob retrieves a job by ID.
func (s *BackfillService) GetJob(ctx context.Context, jobID string) (*domain.BackfillJob, error) {
	return s.jobRepo.FindJobByID(ctx, jobID)
}

// ListJobs retrieves recent jobs, newest first.
func (s *BackfillService) ListJobs(ctx context.Context, limit int) ([]domain.BackfillJob, error) {
	jobs, err := s.jobRepo.ListJobs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list backfill jobs: %w", err)
	}
	if jobs == nil {
		return []domain.BackfillJob{}, nil
	}
	return jobs, nil
}

// RefreshLatest fetches today's rates for source against the targets (all
// active currencies when empty) by running the pipeline over a one-day
// range, synchronously.
func (s *BackfillService) RefreshLatest(ctx context.Context, source string, targets []string) (domain.BackfillResult, error) {
	today := domain.Today()
	return s.Run(ctx, domain.BackfillJob{
		SourceCurrencyCode:  source,
		TargetCurrencyCodes: targets,
		DateFrom:            today,
		DateTo:              today,
	})
}
