package model

import "time"

// RunStatus tracks the orchestrator state machine.
type RunStatus string

// Pipeline states, in order. Every run terminates in Committed or Aborted;
// test-mode runs always end Aborted after producing a full summary.
const (
	RunStatusLoaded       RunStatus = "loaded"
	RunStatusNormalized   RunStatus = "normalized"
	RunStatusDeduplicated RunStatus = "deduplicated"
	RunStatusRestored     RunStatus = "restored"
	RunStatusAIExtracted  RunStatus = "ai_extracted"
	RunStatusReviewed     RunStatus = "reviewed"
	RunStatusCommitted    RunStatus = "committed"
	RunStatusAborted      RunStatus = "aborted"
)

// Run is one reconciliation run, persisted to the run-history store.
type Run struct {
	ID         string    `json:"id"`
	SheetID    string    `json:"sheet_id"`
	TestMode   bool      `json:"test_mode"`
	Status     RunStatus `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Summary    *Summary  `json:"summary,omitempty"`
}

// StageStatus is the outcome of a single pipeline stage.
type StageStatus string

const (
	StageStatusComplete StageStatus = "complete"
	StageStatusSkipped  StageStatus = "skipped"
	StageStatusFailed   StageStatus = "failed"
)

// StageResult records one stage's outcome for the run summary.
type StageResult struct {
	Name     string      `json:"name"`
	Status   StageStatus `json:"status"`
	Duration int64       `json:"duration_ms"`
	Error    string      `json:"error,omitempty"`
}

// CostEstimate is the advisory pre-dispatch estimate for AI extraction.
// It is surfaced to the operator but never blocks execution; the hard gate
// is the max_ai_products cap.
type CostEstimate struct {
	RecordCount     int     `json:"record_count"`
	EstimatedTokens int     `json:"estimated_tokens"`
	EstimatedCost   float64 `json:"estimated_cost_usd"`
}

// Summary tallies everything a run did (or, in a dry run, would do).
// Silent success and silent partial failure are both disallowed: every run
// path ends with this struct printed and persisted.
type Summary struct {
	RecordsLoaded int `json:"records_loaded"`
	BackupRecords int `json:"backup_records"`

	NormalizedFields   int `json:"normalized_fields"`
	ConsolidatedBrands int `json:"consolidated_brands"`

	MergeGroups int `json:"merge_groups"`
	RowsMerged  int `json:"rows_merged"`

	RestoredFields int `json:"restored_fields"`
	AmbiguousSkips int `json:"ambiguous_skips"`

	AIEligible   int `json:"ai_eligible"`
	AIDispatched int `json:"ai_dispatched"`
	AIFilled     int `json:"ai_filled"`
	AIDeclined   int `json:"ai_declined"`
	AIFailed     int `json:"ai_failed"`

	TypeFilled int `json:"type_filled"`

	RowsWritten int      `json:"rows_written"`
	RowsDeleted int      `json:"rows_deleted"`
	WriteErrors []string `json:"write_errors,omitempty"`

	Cost   *CostEstimate `json:"cost_estimate,omitempty"`
	Stages []StageResult `json:"stages,omitempty"`
}
