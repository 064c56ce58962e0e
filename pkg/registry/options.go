package registry

import (
	"time"
)

// Options holds per-registration configuration.
type Options struct {
	// Timeout bounds each invocation of the handler. Zero means no
	// timeout.
	Timeout time.Duration

	// Fields lists the object fields to fetch before invoking the
	// handler. Empty means the caller's default projection.
	Fields []string
}

// NewOptions creates Options with defaults.
func NewOptions() *Options {
	return &Options{}
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// Timeout bounds each invocation of the handler.
func Timeout(d time.Duration) Option {
	return optionFunc(func(o *Options) {
		o.Timeout = d
	})
}

// Fields sets the object fields to fetch before invoking the handler.
func Fields(names ...string) Option {
	return optionFunc(func(o *Options) {
		o.Fields = names
	})
}
