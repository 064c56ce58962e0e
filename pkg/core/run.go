package core

import (
	"time"
)

// RunStatus represents the current state of a job run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Terminal reports whether the status is one a run never leaves.
func (s RunStatus) Terminal() bool {
	return s == RunSucceeded || s == RunFailed
}

// JobRun records one detached execution of a job handler. The Job Runner
// exclusively owns the mutable fields; callers only observe snapshots.
// Once the status leaves "running" the record never changes again.
type JobRun struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Name         string    `gorm:"index;size:255;not null"`
	Status       RunStatus `gorm:"index;size:20;default:'running'"`
	Params       []byte    `gorm:"type:bytes"`
	CallerID     string    `gorm:"size:255"`
	CallerMaster bool
	Result       []byte    `gorm:"type:bytes"`
	ErrorCode    int
	ErrorMessage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
	FinishedAt   *time.Time
}

// Err returns the run's failure as a normalized error, or nil if the run
// has not failed.
func (r *JobRun) Err() *Error {
	if r.Status != RunFailed {
		return nil
	}
	return &Error{Code: r.ErrorCode, Message: r.ErrorMessage}
}

// ProgressEntry is one timestamped line in a run's progress log. Seq is
// assigned by the store and is strictly increasing per run, preserving the
// order in which Message calls completed.
type ProgressEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	RunID     string    `gorm:"index;size:36;not null"`
	Seq       int       `gorm:"not null"`
	Message   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// RunSnapshot is a point-in-time view of a run and its progress log as
// returned by status queries. The progress slice is a prefix of the log:
// readers never observe a torn or reordered entry.
type RunSnapshot struct {
	Run      JobRun
	Progress []ProgressEntry
}

// Messages returns just the progress message texts, in append order.
func (s *RunSnapshot) Messages() []string {
	out := make([]string, len(s.Progress))
	for i, p := range s.Progress {
		out[i] = p.Message
	}
	return out
}
