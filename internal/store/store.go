// Package store persists run history. Every reconciliation run, dry or
// live, is recorded with its final summary so bulk sheet edits stay
// auditable after the fact.
package store

import (
	"context"

	"github.com/celiapp/catalog-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status  model.RunStatus
	SheetID string
	Limit   int
	Offset  int
}

// Store defines the run-history persistence interface.
type Store interface {
	CreateRun(ctx context.Context, sheetID string, testMode bool) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	// CompleteRun records the terminal status and summary in one write.
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, summary *model.Summary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
