package domain

import "time"

// BackfillStatus is the lifecycle state of a backfill job.
type BackfillStatus string

const (
	BackfillPending             BackfillStatus = "pending"
	BackfillRunning             BackfillStatus = "running"
	BackfillCompleted           BackfillStatus = "completed"
	BackfillCompletedWithErrors BackfillStatus = "completed_with_errors"
	BackfillFailed              BackfillStatus = "failed"
)

// BackfillUnitFailure records a single failed (date, target) fetch unit.
// Unit failures never abort the job; they are collected into the result.
type BackfillUnitFailure struct {
	ValuationDate      time.Time `json:"valuationDate"`
	TargetCurrencyCode string    `json:"targetCurrencyCode"`
	Reason             string    `json:"reason"`
}

// BackfillJob is a bulk historical load of rates for one source currency
// over an inclusive date range.
type BackfillJob struct {
	JobID               string                `json:"jobID"` // Primary Key (UUID)
	SourceCurrencyCode  string                `json:"sourceCurrencyCode"`
	TargetCurrencyCodes []string              `json:"targetCurrencyCodes"` // Empty = all active currencies
	DateFrom            time.Time             `json:"dateFrom"`
	DateTo              time.Time             `json:"dateTo"`
	Status              BackfillStatus        `json:"status"`
	UnitsAttempted      int                   `json:"unitsAttempted"`
	UnitsSucceeded      int                   `json:"unitsSucceeded"`
	UnitsFailed         int                   `json:"unitsFailed"`
	Failures            []BackfillUnitFailure `json:"failures,omitempty"`
	Error               string                `json:"error,omitempty"` // Set only for terminally failed jobs
	CreatedAt           time.Time             `json:"createdAt"`
	StartedAt           *time.Time            `json:"startedAt,omitempty"`
	FinishedAt          *time.Time            `json:"finishedAt,omitempty"`
}

// BackfillResult aggregates the outcome of a completed pipeline run.
type BackfillResult struct {
	UnitsAttempted int                   `json:"unitsAttempted"`
	UnitsSucceeded int                   `json:"unitsSucceeded"`
	UnitsFailed    int                   `json:"unitsFailed"`
	Failures       []BackfillUnitFailure `json:"failures,omitempty"`
	Status         BackfillStatus        `json:"status"`
}
