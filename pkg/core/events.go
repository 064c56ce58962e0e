package core

import "time"

// Event is the interface for all lifecycle events emitted by the runner.
type Event interface {
	eventMarker()
}

// JobRunStarted is emitted when a job run is recorded and its handler is
// launched.
type JobRunStarted struct {
	Run       *JobRun
	Timestamp time.Time
}

func (*JobRunStarted) eventMarker() {}

// JobRunCompleted is emitted when a run reaches the succeeded status.
type JobRunCompleted struct {
	Run       *JobRun
	Duration  time.Duration
	Timestamp time.Time
}

func (*JobRunCompleted) eventMarker() {}

// JobRunFailed is emitted when a run reaches the failed status.
type JobRunFailed struct {
	Run       *JobRun
	Err       *Error
	Timestamp time.Time
}

func (*JobRunFailed) eventMarker() {}

// ProgressReported is emitted for each progress message appended to a run.
type ProgressReported struct {
	RunID     string
	Message   string
	Timestamp time.Time
}

func (*ProgressReported) eventMarker() {}

// HookFailed is emitted when an after-hook fails. The triggering write has
// already happened; the failure is recorded, not propagated.
type HookFailed struct {
	ClassName string
	Kind      EventKind
	Err       *Error
	Timestamp time.Time
}

func (*HookFailed) eventMarker() {}
