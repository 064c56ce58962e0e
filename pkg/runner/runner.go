package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloudcore-io/triggers/pkg/core"
	"github.com/cloudcore-io/triggers/pkg/pipeline"
	"github.com/cloudcore-io/triggers/pkg/registry"
	"github.com/cloudcore-io/triggers/pkg/security"
)

// Runner manages long-lived background job executions. It exclusively owns
// each run's mutable state: progress appends and the single terminal
// status transition happen only on behalf of the executing handler.
type Runner struct {
	reg    *registry.Registry
	store  core.RunStore
	pipe   *pipeline.Pipeline
	config RunnerConfig
	logger *slog.Logger

	sem chan struct{}
	wg  sync.WaitGroup

	mu        sync.RWMutex
	eventSubs []chan core.Event
	scheduled map[string]*ScheduledJob
}

// New creates a Runner over the given registry, store, and pipeline. pipe
// may be nil when the pipeline is constructed afterwards (to share the
// runner's event stream); set it with SetPipeline before the first Start.
func New(reg *registry.Registry, store core.RunStore, pipe *pipeline.Pipeline, opts ...RunnerOption) *Runner {
	config := RunnerConfig{
		Concurrency:  100,
		PollInterval: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt.ApplyRunner(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Runner{
		reg:       reg,
		store:     store,
		pipe:      pipe,
		config:    config,
		logger:    config.Logger,
		sem:       make(chan struct{}, security.ClampConcurrency(config.Concurrency)),
		scheduled: make(map[string]*ScheduledJob),
	}
}

// SetPipeline sets the pipeline used to execute job handlers. Must be
// called before the first Start when the runner was created without one.
func (r *Runner) SetPipeline(pipe *pipeline.Pipeline) {
	r.pipe = pipe
}

// Start looks up the named job handler, records a new run, and launches
// the handler detached from the caller: Start returns as soon as the run
// is recorded, not when the handler finishes. The run outlives the
// caller's context.
func (r *Runner) Start(ctx context.Context, name string, params map[string]any, caller core.Caller) (string, error) {
	if err := security.ValidateName(name); err != nil {
		return "", err
	}

	reg, ok := r.reg.LookupJob(name)
	if !ok {
		return "", core.NewError(core.CodeValidationFailed, fmt.Sprintf("invalid job: %q", name))
	}

	var paramsBytes []byte
	if params != nil {
		var err error
		paramsBytes, err = json.Marshal(params)
		if err != nil {
			return "", fmt.Errorf("triggers: failed to marshal params: %w", err)
		}
		if len(paramsBytes) > security.MaxParamsSize {
			return "", core.ErrParamsTooLarge
		}
	}

	run := &core.JobRun{
		ID:           uuid.New().String(),
		Name:         name,
		Status:       core.RunRunning,
		Params:       paramsBytes,
		CallerID:     caller.ID,
		CallerMaster: caller.Master,
	}
	if err := r.store.CreateRun(ctx, run); err != nil {
		return "", fmt.Errorf("triggers: failed to record run: %w", err)
	}

	r.emit(&core.JobRunStarted{Run: run, Timestamp: time.Now()})

	runCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go r.execute(runCtx, reg, run, params, caller)

	return run.ID, nil
}

// Status returns a snapshot of the run and the progress recorded so far,
// or core.ErrRunNotFound.
func (r *Runner) Status(ctx context.Context, runID string) (*core.RunSnapshot, error) {
	run, err := r.store.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	progress, err := r.store.GetProgress(ctx, runID)
	if err != nil {
		return nil, err
	}
	return &core.RunSnapshot{Run: *run, Progress: progress}, nil
}

// Wait blocks until all detached runs launched so far have settled.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) execute(ctx context.Context, reg *registry.Registration, run *core.JobRun, params map[string]any, caller core.Caller) {
	defer r.wg.Done()

	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	start := time.Now()

	ec := &core.EventContext{
		Kind:   core.KindJob,
		Caller: caller,
		Params: params,
		RunID:  run.ID,
	}
	ec.SetMessageSink(func(text string) {
		if err := r.store.AppendProgress(ctx, run.ID, text); err != nil {
			// An abandoned handler messaging a run that already settled
			// is discarded, not an error.
			if !errors.Is(err, core.ErrRunFinished) {
				r.logger.Error("failed to append progress", "run_id", run.ID, "error", err)
			}
			return
		}
		r.emit(&core.ProgressReported{RunID: run.ID, Message: text, Timestamp: time.Now()})
	})

	value, err := r.pipe.Execute(ctx, reg.Handler, ec, pipeline.ExecOptions{Timeout: reg.Handler.Timeout})
	if err != nil {
		r.fail(ctx, run, core.Normalize(err))
		return
	}

	var resultBytes []byte
	if value != nil {
		resultBytes, err = json.Marshal(value)
		if err != nil {
			r.fail(ctx, run, core.NewError(core.CodeScriptFailed, fmt.Sprintf("unserializable job result: %v", err)))
			return
		}
	}

	if err := r.store.CompleteRun(ctx, run.ID, resultBytes); err != nil {
		r.logger.Error("failed to complete run", "run_id", run.ID, "job", run.Name, "error", err)
		return
	}
	r.emit(&core.JobRunCompleted{Run: run, Duration: time.Since(start), Timestamp: time.Now()})
}

func (r *Runner) fail(ctx context.Context, run *core.JobRun, ne *core.Error) {
	if err := r.store.FailRun(ctx, run.ID, ne.Code, ne.Message); err != nil {
		r.logger.Error("failed to record run failure", "run_id", run.ID, "job", run.Name, "error", err)
		return
	}
	r.logger.Warn("job run failed", "run_id", run.ID, "job", run.Name, "code", ne.Code, "error", ne.Message)
	r.emit(&core.JobRunFailed{Run: run, Err: ne, Timestamp: time.Now()})
}

// Events returns a channel for receiving run lifecycle events.
// The caller must call Unsubscribe when done to prevent resource leaks.
func (r *Runner) Events() <-chan core.Event {
	ch := make(chan core.Event, 100)
	r.mu.Lock()
	r.eventSubs = append(r.eventSubs, ch)
	r.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel created by Events(). The
// channel is not closed, and an emit already in flight may still deliver
// one buffered event after Unsubscribe returns.
func (r *Runner) Unsubscribe(ch <-chan core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sub := range r.eventSubs {
		if sub == ch {
			r.eventSubs = append(r.eventSubs[:i], r.eventSubs[i+1:]...)
			return
		}
	}
}

// Emit delivers an event to all subscribers without blocking; events to
// slow consumers are dropped.
func (r *Runner) Emit(e core.Event) {
	r.emit(e)
}

func (r *Runner) emit(e core.Event) {
	r.mu.RLock()
	subs := make([]chan core.Event, len(r.eventSubs))
	copy(subs, r.eventSubs)
	r.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- e:
		default:
			// Drop if full - this prevents blocking on slow consumers
		}
	}
}
