package core

import (
	"context"
)

// RunStore defines the persistence layer for job runs and their progress
// logs. A run may outlive the process that started it; the store is what
// makes its status and progress observable afterwards.
type RunStore interface {
	// Migrate creates the necessary database tables.
	Migrate(ctx context.Context) error

	// CreateRun records a new run in the "running" state.
	CreateRun(ctx context.Context, run *JobRun) error

	// AppendProgress appends a message to the run's progress log,
	// assigning the next per-run sequence number atomically.
	AppendProgress(ctx context.Context, runID, message string) error

	// CompleteRun transitions a run from running to succeeded, storing the
	// serialized result. Returns ErrRunFinished if the run already reached
	// a terminal status, ErrRunNotFound if it does not exist.
	CompleteRun(ctx context.Context, runID string, result []byte) error

	// FailRun transitions a run from running to failed, storing the
	// normalized error. Same terminal-status guarantees as CompleteRun.
	FailRun(ctx context.Context, runID string, code int, message string) error

	// GetRun returns the run record, or ErrRunNotFound.
	GetRun(ctx context.Context, runID string) (*JobRun, error)

	// GetProgress returns the run's progress entries ordered by sequence.
	GetProgress(ctx context.Context, runID string) ([]ProgressEntry, error)

	// GetRunsByStatus returns up to limit runs in the given status,
	// newest first.
	GetRunsByStatus(ctx context.Context, status RunStatus, limit int) ([]*JobRun, error)
}
