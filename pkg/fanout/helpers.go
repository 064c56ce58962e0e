package fanout

import "github.com/cloudcore-io/triggers/pkg/core"

// Values returns the values of the successful results, in index order.
func Values[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Value)
		}
	}
	return out
}

// Partition splits results into successful values and failures.
func Partition[T any](results []Result[T]) ([]T, []error) {
	oks := make([]T, 0)
	fails := make([]error, 0)
	for _, r := range results {
		if r.Err == nil {
			oks = append(oks, r.Value)
		} else {
			fails = append(fails, r.Err)
		}
	}
	return oks, fails
}

// AllSucceeded reports whether no sub-task failed.
func AllSucceeded[T any](results []Result[T]) bool {
	for _, r := range results {
		if r.Err != nil {
			return false
		}
	}
	return true
}

// SuccessCount returns how many sub-tasks succeeded.
func SuccessCount[T any](results []Result[T]) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// FirstFailure returns the lowest-indexed failure as a normalized error,
// or nil if every sub-task succeeded.
func FirstFailure[T any](results []Result[T]) *core.Error {
	for _, r := range results {
		if r.Err != nil {
			return core.Normalize(r.Err)
		}
	}
	return nil
}
