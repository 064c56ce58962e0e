package core

// EventKind identifies which lifecycle event or entry point an invocation
// belongs to.
type EventKind string

const (
	KindBeforeSave   EventKind = "beforeSave"
	KindAfterSave    EventKind = "afterSave"
	KindBeforeDelete EventKind = "beforeDelete"
	KindAfterDelete  EventKind = "afterDelete"
	KindFunction     EventKind = "function"
	KindJob          EventKind = "job"
)

// IsHook reports whether the kind is a data-lifecycle hook kind.
func (k EventKind) IsHook() bool {
	switch k {
	case KindBeforeSave, KindAfterSave, KindBeforeDelete, KindAfterDelete:
		return true
	}
	return false
}

// IsBefore reports whether the kind gates an operation that has not
// happened yet. Before-hook failures abort the guarded operation.
func (k EventKind) IsBefore() bool {
	return k == KindBeforeSave || k == KindBeforeDelete
}

// Object is a document-shaped entity as hooks see it. For before hooks the
// handler may mutate it in place to influence the eventual write.
type Object map[string]any

// Get returns the value for key, or nil if absent.
func (o Object) Get(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}

// Set stores a value under key.
func (o Object) Set(key string, value any) {
	o[key] = value
}

// Clone returns a shallow copy of the object. Used to snapshot the
// persisted state before a hook runs.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	c := make(Object, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Caller identifies who triggered an invocation. Master callers bypass
// permission checks in the surrounding service; this core only carries the
// flag through to handlers.
type Caller struct {
	ID     string
	Master bool
}

// EventContext is the immutable per-invocation bundle handed to handlers.
// A fresh context is built for every invocation. Handlers must not retain
// it past their own return; the one sanctioned mutation point is Object,
// for before hooks.
type EventContext struct {
	// ClassName is the entity class the event belongs to. Empty for
	// functions and jobs.
	ClassName string

	// Kind is the event kind this context was built for.
	Kind EventKind

	// Object is the target of the event. Before-hook handlers may mutate
	// it; the mutated object is what downstream persistence writes.
	Object Object

	// Original is a snapshot of the object's persisted state, set for
	// before hooks only.
	Original Object

	// Caller identifies who triggered the invocation.
	Caller Caller

	// Params carries caller-supplied parameters for functions and jobs.
	Params map[string]any

	// RunID is the job run identifier, set for job invocations only.
	RunID string

	message func(string)
}

// SetMessageSink wires the progress sink for job invocations. The Job
// Runner installs it before starting the handler.
func (ec *EventContext) SetMessageSink(fn func(string)) {
	ec.message = fn
}

// Message appends a line to the run's progress log. Calls complete in
// order; each call returns after the entry is recorded. Outside of a job
// invocation it is a no-op.
func (ec *EventContext) Message(text string) {
	if ec.message != nil {
		ec.message(text)
	}
}
