package handler

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/cloudcore-io/triggers/pkg/core"
)

var (
	ctxType       = reflect.TypeOf((*context.Context)(nil)).Elem()
	eventCtxType  = reflect.TypeOf((*core.EventContext)(nil))
	responderType = reflect.TypeOf((*Responder)(nil))
	errType       = reflect.TypeOf((*error)(nil)).Elem()
)

// Handler is the normalized form of a registered handler, whatever its
// declared calling convention.
type Handler struct {
	fn     reflect.Value
	legacy bool

	// Timeout is the per-registration invocation deadline. Zero means no
	// timeout.
	Timeout time.Duration
}

// NewHandler normalizes a handler function. Supported shapes:
//
//	func(ctx context.Context, ec *core.EventContext) (T, error)
//	func(ctx context.Context, ec *core.EventContext) error
//	func(ctx context.Context, ec *core.EventContext, r *handler.Responder)
//
// The first two are the preferred modern shapes; the third is the legacy
// side-channel shape. Anything else is a registration error, detected here
// and never at invocation time.
func NewHandler(fn any) (*Handler, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: handler is nil", core.ErrInvalidHandler)
	}

	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || (fnVal.Kind() == reflect.Func && fnVal.IsNil()) {
		return nil, fmt.Errorf("%w: handler function is nil", core.ErrInvalidHandler)
	}

	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: not a function", core.ErrInvalidHandler)
	}

	numIn := fnType.NumIn()
	if numIn < 2 || numIn > 3 {
		return nil, fmt.Errorf("%w: want 2 or 3 parameters, got %d", core.ErrInvalidHandler, numIn)
	}
	if !fnType.In(0).Implements(ctxType) {
		return nil, fmt.Errorf("%w: first parameter must be context.Context", core.ErrInvalidHandler)
	}
	if fnType.In(1) != eventCtxType {
		return nil, fmt.Errorf("%w: second parameter must be *core.EventContext", core.ErrInvalidHandler)
	}

	h := &Handler{fn: fnVal}

	if numIn == 3 {
		// Legacy side-channel shape: outcome arrives via the responder,
		// so the function itself must not return anything.
		if fnType.In(2) != responderType {
			return nil, fmt.Errorf("%w: third parameter must be *handler.Responder", core.ErrInvalidHandler)
		}
		if fnType.NumOut() != 0 {
			return nil, fmt.Errorf("%w: responder handlers must not return values", core.ErrInvalidHandler)
		}
		h.legacy = true
		return h, nil
	}

	switch fnType.NumOut() {
	case 1:
		if !fnType.Out(0).Implements(errType) {
			return nil, fmt.Errorf("%w: single return value must be error", core.ErrInvalidHandler)
		}
	case 2:
		if !fnType.Out(1).Implements(errType) {
			return nil, fmt.Errorf("%w: second return value must be error", core.ErrInvalidHandler)
		}
	default:
		return nil, fmt.Errorf("%w: must return error or (T, error)", core.ErrInvalidHandler)
	}

	return h, nil
}

// Legacy reports whether the handler uses the side-channel responder shape.
func (h *Handler) Legacy() bool {
	return h.legacy
}

// Invoke runs the handler and blocks until it settles or ctx is done. For
// modern handlers the return values are the outcome directly; for legacy
// handlers the outcome is whichever of Success/Error the handler called
// first.
func (h *Handler) Invoke(ctx context.Context, ec *core.EventContext) (any, error) {
	if h.legacy {
		return h.invokeLegacy(ctx, ec)
	}

	results := h.fn.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(ec)})

	if len(results) == 1 {
		if !results[0].IsNil() {
			return nil, results[0].Interface().(error)
		}
		return nil, nil
	}

	if !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	if results[0].CanInterface() {
		return results[0].Interface(), nil
	}
	return nil, nil
}

func (h *Handler) invokeLegacy(ctx context.Context, ec *core.EventContext) (any, error) {
	r := newResponder(ec)

	// The handler may settle before returning or hand the responder to a
	// goroutine and settle later; either way the outcome arrives on done.
	h.fn.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(ec), reflect.ValueOf(r)})

	select {
	case out := <-r.done:
		if out.failed {
			return nil, core.Normalize(out.raised)
		}
		return out.value, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
