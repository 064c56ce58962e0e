package runner

import (
	"log/slog"
	"time"

	"github.com/cloudcore-io/triggers/pkg/security"
)

// RunnerConfig holds runner configuration.
type RunnerConfig struct {
	// Concurrency bounds how many detached runs execute at once.
	Concurrency int

	// PollInterval is the scheduler's tick interval.
	PollInterval time.Duration

	// Logger receives run lifecycle and progress failures.
	Logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption interface {
	ApplyRunner(*RunnerConfig)
}

type runnerOptionFunc func(*RunnerConfig)

func (f runnerOptionFunc) ApplyRunner(c *RunnerConfig) { f(c) }

// Concurrency bounds how many detached runs execute at once.
// Values are clamped to [1, MaxConcurrency].
func Concurrency(n int) RunnerOption {
	return runnerOptionFunc(func(c *RunnerConfig) {
		c.Concurrency = security.ClampConcurrency(n)
	})
}

// PollInterval sets the scheduler's tick interval.
func PollInterval(d time.Duration) RunnerOption {
	return runnerOptionFunc(func(c *RunnerConfig) {
		c.PollInterval = d
	})
}

// WithLogger sets the runner's logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return runnerOptionFunc(func(c *RunnerConfig) {
		c.Logger = l
	})
}
