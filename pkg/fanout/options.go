package fanout

import (
	"github.com/cloudcore-io/triggers/pkg/security"
)

// Option configures fan-out behavior.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

type config struct {
	concurrency int
}

func defaultConfig() *config {
	return &config{}
}

// Concurrency bounds how many sub-tasks run at once. Zero (the default)
// means unbounded.
func Concurrency(n int) Option {
	return optionFunc(func(c *config) {
		c.concurrency = security.ClampConcurrency(n)
	})
}
