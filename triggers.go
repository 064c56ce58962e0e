// Package triggers provides the trigger-and-job execution core of a
// backend-as-a-service server: it runs user-supplied handlers
// (data-lifecycle hooks, named functions, and background jobs) with
// uniform calling conventions, timeouts, normalized errors, and a durable
// progress log for long-running jobs.
//
// This is the main package users should import. It re-exports all public
// types from the internal pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Create a run store and engine
//	db, _ := gorm.Open(sqlite.Open("runs.db"), &gorm.Config{})
//	store := triggers.NewGormStore(db)
//	store.Migrate(context.Background())
//	engine := triggers.New(store)
//
//	// Gate writes to a class
//	engine.RegisterHook("Post", triggers.KindBeforeSave,
//	    func(ctx context.Context, ec *triggers.EventContext) error {
//	        if ec.Object.Get("title") == nil {
//	            return triggers.NewError(triggers.CodeValidationFailed, "title required")
//	        }
//	        return nil
//	    })
//
//	// Start a background job
//	engine.RegisterJob("reindex", func(ctx context.Context, ec *triggers.EventContext) error {
//	    ec.Message("starting")
//	    return reindexAll(ctx)
//	})
//	runID, _ := engine.StartJob(ctx, "reindex", nil, triggers.Caller{ID: "admin", Master: true})
package triggers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cloudcore-io/triggers/pkg/core"
	"github.com/cloudcore-io/triggers/pkg/fanout"
	"github.com/cloudcore-io/triggers/pkg/handler"
	"github.com/cloudcore-io/triggers/pkg/pipeline"
	"github.com/cloudcore-io/triggers/pkg/registry"
	"github.com/cloudcore-io/triggers/pkg/runner"
	"github.com/cloudcore-io/triggers/pkg/schedule"
	"github.com/cloudcore-io/triggers/pkg/security"
	"github.com/cloudcore-io/triggers/pkg/storage"
)

// Type aliases for the public API surface
type (
	// EventKind identifies which lifecycle event an invocation belongs to.
	EventKind = core.EventKind

	// EventContext is the per-invocation bundle handed to handlers.
	EventContext = core.EventContext

	// Object is a document-shaped entity as hooks see it.
	Object = core.Object

	// Caller identifies who triggered an invocation.
	Caller = core.Caller

	// Error is the normalized (code, message) failure shape.
	Error = core.Error

	// Responder is the side-channel companion passed to legacy handlers.
	Responder = handler.Responder

	// Registry maps classes and names to normalized handlers.
	Registry = registry.Registry

	// Registration is a normalized handler plus its options.
	Registration = registry.Registration

	// Option configures a registration.
	Option = registry.Option

	// Pipeline executes normalized handlers for single events.
	Pipeline = pipeline.Pipeline

	// ExecOptions configures a single pipeline execution.
	ExecOptions = pipeline.ExecOptions

	// Runner manages detached background job executions.
	Runner = runner.Runner

	// RunnerOption configures a Runner.
	RunnerOption = runner.RunnerOption

	// ScheduledJob holds configuration for a recurring job.
	ScheduledJob = runner.ScheduledJob

	// JobRun records one detached execution of a job handler.
	JobRun = core.JobRun

	// RunStatus represents the current state of a job run.
	RunStatus = core.RunStatus

	// RunSnapshot is a point-in-time view of a run and its progress.
	RunSnapshot = core.RunSnapshot

	// ProgressEntry is one timestamped line in a run's progress log.
	ProgressEntry = core.ProgressEntry

	// RunStore defines the persistence layer for job runs.
	RunStore = core.RunStore

	// GormStore implements RunStore using GORM.
	GormStore = storage.GormStore

	// Event is the interface for all run lifecycle events.
	Event = core.Event

	// JobRunStarted is emitted when a run is recorded and launched.
	JobRunStarted = core.JobRunStarted

	// JobRunCompleted is emitted when a run succeeds.
	JobRunCompleted = core.JobRunCompleted

	// JobRunFailed is emitted when a run fails.
	JobRunFailed = core.JobRunFailed

	// ProgressReported is emitted for each progress message.
	ProgressReported = core.ProgressReported

	// HookFailed is emitted when an after hook fails.
	HookFailed = core.HookFailed

	// Schedule defines when a recurring job should start next.
	Schedule = schedule.Schedule
)

// Event kind constants
const (
	KindBeforeSave   = core.KindBeforeSave
	KindAfterSave    = core.KindAfterSave
	KindBeforeDelete = core.KindBeforeDelete
	KindAfterDelete  = core.KindAfterDelete
	KindFunction     = core.KindFunction
	KindJob          = core.KindJob
)

// Run status constants
const (
	RunRunning   = core.RunRunning
	RunSucceeded = core.RunSucceeded
	RunFailed    = core.RunFailed
)

// Error codes surfaced to callers
const (
	CodeScriptFailed     = core.CodeScriptFailed
	CodeValidationFailed = core.CodeValidationFailed
	CodeTimeout          = core.CodeTimeout
)

// Security limits
const (
	MaxNameLength            = security.MaxNameLength
	MaxParamsSize            = security.MaxParamsSize
	MaxConcurrency           = security.MaxConcurrency
	MaxErrorMessageLength    = security.MaxErrorMessageLength
	MaxProgressMessageLength = security.MaxProgressMessageLength
)

// Error variables
var (
	ErrInvalidHandler   = core.ErrInvalidHandler
	ErrInvalidClassName = core.ErrInvalidClassName
	ErrInvalidName      = core.ErrInvalidName
	ErrInvalidEventKind = core.ErrInvalidEventKind
	ErrParamsTooLarge   = core.ErrParamsTooLarge
	ErrRunNotFound      = core.ErrRunNotFound
	ErrRunFinished      = core.ErrRunFinished
)

// Engine ties a registry, an invocation pipeline, and a job runner into
// one process-owned instance. It is the registration interface, the
// trigger points, and the job control surface in a single value.
type Engine struct {
	registry *registry.Registry
	pipeline *pipeline.Pipeline
	runner   *runner.Runner
	store    core.RunStore
}

// New creates an Engine over the given run store.
func New(store core.RunStore, opts ...RunnerOption) *Engine {
	reg := registry.New()

	e := &Engine{
		registry: reg,
		store:    store,
	}

	run := runner.New(reg, store, nil, opts...)
	pipe := pipeline.New(reg, pipeline.WithEmitter(run.Emit))
	run.SetPipeline(pipe)

	e.pipeline = pipe
	e.runner = run
	return e
}

// Registry returns the engine's handler registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Pipeline returns the engine's invocation pipeline.
func (e *Engine) Pipeline() *Pipeline { return e.pipeline }

// Runner returns the engine's job runner.
func (e *Engine) Runner() *Runner { return e.runner }

// RegisterHook stores or replaces the hook for (class, kind).
func (e *Engine) RegisterHook(class string, kind EventKind, fn any, opts ...Option) error {
	return e.registry.RegisterHook(class, kind, fn, opts...)
}

// UnregisterHook removes the hook for (class, kind); a no-op when absent.
func (e *Engine) UnregisterHook(class string, kind EventKind) {
	e.registry.UnregisterHook(class, kind)
}

// RegisterFunction stores or replaces the named function handler.
func (e *Engine) RegisterFunction(name string, fn any, opts ...Option) error {
	return e.registry.RegisterFunction(name, fn, opts...)
}

// RegisterJob stores or replaces the named job handler.
func (e *Engine) RegisterJob(name string, fn any, opts ...Option) error {
	return e.registry.RegisterJob(name, fn, opts...)
}

// RunBeforeHook runs the before hook for class and returns the object the
// downstream write may persist. Any failure aborts the guarded operation.
func (e *Engine) RunBeforeHook(ctx context.Context, class string, ec *EventContext) (Object, error) {
	return e.pipeline.RunBeforeHook(ctx, class, ec)
}

// RunAfterHook runs the after hook for class. Failures are recorded but
// never unwind the write that already happened.
func (e *Engine) RunAfterHook(ctx context.Context, class string, ec *EventContext) error {
	return e.pipeline.RunAfterHook(ctx, class, ec)
}

// RunFunction runs the named function handler and returns its value.
func (e *Engine) RunFunction(ctx context.Context, name string, ec *EventContext) (any, error) {
	return e.pipeline.RunFunction(ctx, name, ec)
}

// StartJob records a new run for the named job and launches its handler
// detached from the caller.
func (e *Engine) StartJob(ctx context.Context, name string, params map[string]any, caller Caller) (string, error) {
	return e.runner.Start(ctx, name, params, caller)
}

// GetJobStatus returns a snapshot of the run and its progress so far.
func (e *Engine) GetJobStatus(ctx context.Context, runID string) (*RunSnapshot, error) {
	return e.runner.Status(ctx, runID)
}

// ScheduleJob registers a recurring start for the named job.
func (e *Engine) ScheduleJob(name string, sched Schedule, params map[string]any) {
	e.runner.ScheduleJob(name, sched, params)
}

// RunScheduler starts due runs for scheduled jobs; blocks until ctx ends.
func (e *Engine) RunScheduler(ctx context.Context) error {
	return e.runner.RunScheduler(ctx)
}

// Events returns a channel for receiving run lifecycle events.
func (e *Engine) Events() <-chan Event {
	return e.runner.Events()
}

// Unsubscribe removes a subscriber channel created by Events().
func (e *Engine) Unsubscribe(ch <-chan Event) {
	e.runner.Unsubscribe(ch)
}

// NewGormStore creates a new GORM-backed run store.
func NewGormStore(db *gorm.DB) *GormStore {
	return storage.NewGormStore(db)
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return registry.New()
}

// NewError creates a normalized error with an explicit code.
func NewError(code int, message string) *Error {
	return core.NewError(code, message)
}

// Normalize canonicalizes whatever a handler failed with into an *Error.
func Normalize(raised any) *Error {
	return core.Normalize(raised)
}

// Registration option functions

// Timeout bounds each invocation of a handler.
func Timeout(d time.Duration) Option {
	return registry.Timeout(d)
}

// Fields sets the object fields to fetch before invoking a handler.
func Fields(names ...string) Option {
	return registry.Fields(names...)
}

// Runner option functions

// Concurrency bounds how many detached runs execute at once.
func Concurrency(n int) RunnerOption {
	return runner.Concurrency(n)
}

// PollInterval sets the scheduler's tick interval.
func PollInterval(d time.Duration) RunnerOption {
	return runner.PollInterval(d)
}

// Schedule functions

// Every creates a schedule that runs at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Daily creates a schedule that runs at a specific time each day.
func Daily(hour, minute int) Schedule {
	return schedule.Daily(hour, minute)
}

// Weekly creates a schedule that runs at a specific day and time each week.
func Weekly(day time.Weekday, hour, minute int) Schedule {
	return schedule.Weekly(day, hour, minute)
}

// Cron creates a schedule from a cron expression.
func Cron(expr string) Schedule {
	return schedule.Cron(expr)
}

// Fan-out helpers

// Join runs all tasks concurrently and waits for every one to settle.
func Join[T any](ctx context.Context, tasks []fanout.Task[T], opts ...fanout.Option) ([]fanout.Result[T], error) {
	return fanout.Join(ctx, tasks, opts...)
}

// ValidateClassName validates an entity class name.
func ValidateClassName(name string) error {
	return security.ValidateClassName(name)
}

// ValidateName validates a function or job name.
func ValidateName(name string) error {
	return security.ValidateName(name)
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage.
func SanitizeErrorMessage(msg string) string {
	return security.SanitizeErrorMessage(msg)
}

// ClampConcurrency ensures concurrency is within limits.
func ClampConcurrency(n int) int {
	return security.ClampConcurrency(n)
}
