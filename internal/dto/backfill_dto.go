package dto

import (
	"time"

	"github.com/areyesv/fx-rates-service/internal/core/domain"
)

// CreateBackfillJobRequest defines the structure for submitting a historical
// backfill. TargetCurrencyCodes empty means all active currencies.
type CreateBackfillJobRequest struct {
	SourceCurrencyCode  string   `json:"sourceCurrencyCode" binding:"required,len=3,uppercase"`
	DateFrom            string   `json:"dateFrom" binding:"required,datetime=2006-01-02"`
	DateTo              string   `json:"dateTo" binding:"required,datetime=2006-01-02"`
	TargetCurrencyCodes []string `json:"targetCurrencyCodes" binding:"omitempty,dive,len=3,uppercase"`
}

// BackfillUnitFailureResponse is one failed (date, target) unit.
type BackfillUnitFailureResponse struct {
	ValuationDate      string `json:"valuationDate"`
	TargetCurrencyCode string `json:"targetCurrencyCode"`
	Reason             string `json:"reason"`
}

// BackfillJobResponse defines the structure for backfill job status responses.
type BackfillJobResponse struct {
	JobID               string                        `json:"jobID"`
	SourceCurrencyCode  string                        `json:"sourceCurrencyCode"`
	TargetCurrencyCodes []string                      `json:"targetCurrencyCodes"`
	DateFrom            string                        `json:"dateFrom"`
	DateTo              string                        `json:"dateTo"`
	Status              string                        `json:"status"`
	UnitsAttempted      int                           `json:"unitsAttempted"`
	UnitsSucceeded      int                           `json:"unitsSucceeded"`
	UnitsFailed         int                           `json:"unitsFailed"`
	Failures            []BackfillUnitFailureResponse `json:"failures,omitempty"`
	Error               string                        `json:"error,omitempty"`
	CreatedAt           time.Time                     `json:"createdAt"`
	StartedAt           *time.Time                    `json:"startedAt,omitempty"`
	FinishedAt          *time.Time                    `json:"finishedAt,omitempty"`
}

// ToBackfillJobResponse converts a domain.BackfillJob to BackfillJobResponse DTO
func ToBackfillJobResponse(job *domain.BackfillJob) BackfillJobResponse {
	failures := make([]BackfillUnitFailureResponse, len(job.Failures))
	for i, f := range job.Failures {
		failures[i] = BackfillUnitFailureResponse{
			ValuationDate:      f.ValuationDate.Format(time.DateOnly),
			TargetCurrencyCode: f.TargetCurrencyCode,
			Reason:             f.Reason,
		}
	}
	if len(failures) == 0 {
		failures = nil
	}
	return BackfillJobResponse{
		JobID:               job.JobID,
		SourceCurrencyCode:  job.SourceCurrencyCode,
		TargetCurrencyCodes: job.TargetCurrencyCodes,
		DateFrom:            job.DateFrom.Format(time.DateOnly),
		DateTo:              job.DateTo.Format(time.DateOnly),
		Status:              string(job.Status),
		UnitsAttempted:      job.UnitsAttempted,
		UnitsSucceeded:      job.UnitsSucceeded,
		UnitsFailed:         job.UnitsFailed,
		Failures:            failures,
		Error:               job.Error,
		CreatedAt:           job.CreatedAt,
		StartedAt:           job.StartedAt,
		FinishedAt:          job.FinishedAt,
	}
}

// ToListBackfillJobResponse converts a slice of domain.BackfillJob to DTOs.
func ToListBackfillJobResponse(jobs []domain.BackfillJob) []BackfillJobResponse {
	responses := make([]BackfillJobResponse, len(jobs))
	for i := range jobs {
		responses[i] = ToBackfillJobResponse(&jobs[i])
	}
	return responses
}
