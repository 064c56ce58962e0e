package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudcore-io/triggers/pkg/core"
	"github.com/cloudcore-io/triggers/pkg/handler"
	"github.com/cloudcore-io/triggers/pkg/registry"
)

// Pipeline executes normalized handlers for single events. It owns the
// timeout race and the one place where arbitrary handler failures become
// normalized errors.
type Pipeline struct {
	reg    *registry.Registry
	logger *slog.Logger
	emit   func(core.Event)
}

// PipelineOption configures a Pipeline.
type PipelineOption interface {
	ApplyPipeline(*Pipeline)
}

type pipelineOptionFunc func(*Pipeline)

func (f pipelineOptionFunc) ApplyPipeline(p *Pipeline) { f(p) }

// WithLogger sets the pipeline's logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return pipelineOptionFunc(func(p *Pipeline) {
		p.logger = l
	})
}

// WithEmitter wires an event sink used to record after-hook failures.
func WithEmitter(emit func(core.Event)) PipelineOption {
	return pipelineOptionFunc(func(p *Pipeline) {
		p.emit = emit
	})
}

// New creates a Pipeline over the given registry.
func New(reg *registry.Registry, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		reg:    reg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt.ApplyPipeline(p)
	}
	return p
}

// ExecOptions configures a single execution.
type ExecOptions struct {
	// Timeout bounds the handler. Zero means no timeout.
	Timeout time.Duration
}

type result struct {
	value any
	err   error
}

// Execute starts the normalized handler and awaits one of three terminal
// conditions: completion, failure, or timeout. Any failure comes back as a
// *core.Error; no other error shape crosses this boundary.
//
// On timeout the handler is abandoned: its context is canceled so
// cooperative handlers can stop early, but nothing forcibly terminates
// in-flight work, and its eventual result is discarded.
func (p *Pipeline) Execute(ctx context.Context, h *handler.Handler, ec *core.EventContext, opts ExecOptions) (any, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := h.Invoke(runCtx, ec)
		done <- result{value: v, err: err}
	}()

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		t := time.NewTimer(opts.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case res := <-done:
		if res.err != nil {
			return nil, core.Normalize(res.err)
		}
		return res.value, nil
	case <-timeout:
		return nil, core.NewError(core.CodeTimeout, fmt.Sprintf("handler timed out after %v", opts.Timeout))
	case <-ctx.Done():
		return nil, core.Normalize(ctx.Err())
	}
}

func execOptions(reg *registry.Registration) ExecOptions {
	return ExecOptions{Timeout: reg.Handler.Timeout}
}

// RunBeforeHook executes the before hook registered for class, if any, and
// returns the object the downstream write is allowed to persist. A failure
// of any kind means the guarded operation must not proceed to storage.
// With no hook configured the object passes through unchanged.
func (p *Pipeline) RunBeforeHook(ctx context.Context, class string, ec *core.EventContext) (core.Object, error) {
	if !ec.Kind.IsBefore() {
		return nil, core.Errorf("event kind %q is not a before hook", ec.Kind)
	}

	reg, ok := p.reg.LookupHook(class, ec.Kind)
	if !ok {
		return ec.Object, nil
	}

	if _, err := p.Execute(ctx, reg.Handler, ec, execOptions(reg)); err != nil {
		return nil, err
	}
	return ec.Object, nil
}

// RunAfterHook executes the after hook registered for class, if any. The
// triggering write already happened; a failure is logged and emitted for
// recording but never rolls the write back.
func (p *Pipeline) RunAfterHook(ctx context.Context, class string, ec *core.EventContext) error {
	if !ec.Kind.IsHook() || ec.Kind.IsBefore() {
		return core.Errorf("event kind %q is not an after hook", ec.Kind)
	}

	reg, ok := p.reg.LookupHook(class, ec.Kind)
	if !ok {
		return nil
	}

	_, err := p.Execute(ctx, reg.Handler, ec, execOptions(reg))
	if err != nil {
		ne := core.Normalize(err)
		p.logger.Warn("after hook failed", "class", class, "kind", string(ec.Kind), "code", ne.Code, "error", ne.Message)
		if p.emit != nil {
			p.emit(&core.HookFailed{ClassName: class, Kind: ec.Kind, Err: ne, Timestamp: time.Now()})
		}
		return ne
	}
	return nil
}

// RunFunction executes the named function handler and returns its value.
// An unknown name is a validation-coded error.
func (p *Pipeline) RunFunction(ctx context.Context, name string, ec *core.EventContext) (any, error) {
	reg, ok := p.reg.LookupFunction(name)
	if !ok {
		return nil, core.NewError(core.CodeValidationFailed, fmt.Sprintf("invalid function: %q", name))
	}

	return p.Execute(ctx, reg.Handler, ec, execOptions(reg))
}
