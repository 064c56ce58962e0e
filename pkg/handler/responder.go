package handler

import (
	"sync"

	"github.com/cloudcore-io/triggers/pkg/core"
)

// Responder is the side-channel companion passed to legacy handlers. The
// handler reports its outcome by calling Success or Error exactly once;
// the first call wins and later calls are ignored. Message feeds the
// progress log of the active job run and never settles the invocation.
type Responder struct {
	ec   *core.EventContext
	once sync.Once
	done chan outcome
}

type outcome struct {
	value  any
	raised any
	failed bool
}

func newResponder(ec *core.EventContext) *Responder {
	return &Responder{ec: ec, done: make(chan outcome, 1)}
}

// Success resolves the invocation with value. value may be nil for
// handlers that have nothing to return.
func (r *Responder) Success(value any) {
	r.once.Do(func() {
		r.done <- outcome{value: value}
	})
}

// Error rejects the invocation. raised may be an error, a *core.Error, a
// plain string, or nil; the pipeline normalizes it either way.
func (r *Responder) Error(raised any) {
	r.once.Do(func() {
		r.done <- outcome{raised: raised, failed: true}
	})
}

// Message appends a line to the active run's progress log. Outside of a
// job invocation it is a no-op.
func (r *Responder) Message(text string) {
	r.ec.Message(text)
}
