// Package fanout provides a join over concurrent sub-tasks for job handlers.
//
// Join runs every sub-task to settlement before reporting: a failure is
// tracked when it happens but never short-circuits the batch, so the
// overall outcome is decided only once all sub-tasks have completed.
package fanout

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudcore-io/triggers/pkg/core"
)

// Task is one unit of concurrent work inside a job handler.
type Task[T any] func(ctx context.Context) (T, error)

// Result wraps a sub-task result with its index and potential error.
type Result[T any] struct {
	Index int   // Position in the original tasks slice
	Value T     // Result if successful
	Err   error // Normalized error if failed
}

// Failure contains details about a single sub-task failure.
type Failure struct {
	Index int
	Err   *core.Error
}

// Error contains details about fan-out failures. It is returned only
// after every sub-task has settled.
type Error struct {
	TotalCount  int
	FailedCount int
	Failures    []Failure
}

func (e *Error) Error() string {
	return fmt.Sprintf("fan-out failed: %d/%d sub-tasks failed", e.FailedCount, e.TotalCount)
}

// Join runs all tasks concurrently and waits for every one of them to
// settle. Panics in a sub-task count as that sub-task's failure. If any
// sub-task failed the returned error is an *Error listing all failures;
// the results slice is complete either way.
func Join[T any](ctx context.Context, tasks []Task[T], opts ...Option) ([]Result[T], error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(cfg)
	}

	results := make([]Result[T], len(tasks))

	var sem chan struct{}
	if cfg.concurrency > 0 && cfg.concurrency < len(tasks) {
		sem = make(chan struct{}, cfg.concurrency)
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task[T]) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			defer func() {
				if r := recover(); r != nil {
					results[i] = Result[T]{Index: i, Err: core.Normalize(fmt.Errorf("panic: %v", r))}
				}
			}()

			v, err := task(ctx)
			if err != nil {
				results[i] = Result[T]{Index: i, Err: core.Normalize(err)}
				return
			}
			results[i] = Result[T]{Index: i, Value: v}
		}(i, task)
	}
	wg.Wait()

	var failures []Failure
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, Failure{Index: r.Index, Err: core.Normalize(r.Err)})
		}
	}
	if len(failures) > 0 {
		return results, &Error{
			TotalCount:  len(tasks),
			FailedCount: len(failures),
			Failures:    failures,
		}
	}
	return results, nil
}

// Map runs fn over every item concurrently and joins the results.
func Map[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error), opts ...Option) ([]Result[R], error) {
	tasks := make([]Task[R], len(items))
	for i, item := range items {
		item := item
		tasks[i] = func(ctx context.Context) (R, error) {
			return fn(ctx, item)
		}
	}
	return Join(ctx, tasks, opts...)
}
