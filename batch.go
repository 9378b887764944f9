package mgmt

import (
	"fmt"
)

// BatchResult is the outcome of a batch operation. Completed, the error
// target and Remaining partition the input in order.
type BatchResult[T any] struct {
	// Completed holds the targets processed successfully, in processing order
	Completed []T
	// Remaining holds the targets never attempted, in input order
	Remaining []T
	// ErrorTarget is the target whose action failed, or the zero value
	ErrorTarget T
	// ErrorDetail is the failure message, or empty
	ErrorDetail string
	// Success is true iff no action failed
	Success bool
}

// Execute applies action to each target in order and stops at the first
// failure. It never runs actions concurrently and never returns an error:
// the failure is reported in the result.
func Execute[T any](targets []T, action func(T) error) BatchResult[T] {
	return run(targets, func(_ int, target T) error {
		return action(target)
	})
}

// ExecutePaired is Execute for actions that take a per-target payload.
// Mismatched lengths return ErrPrecondition before any action runs.
func ExecutePaired[T, P any](targets []T, payloads []P, action func(T, P) error) (BatchResult[T], error) {
	if len(targets) != len(payloads) {
		return BatchResult[T]{}, fmt.Errorf("%w: %d targets but %d payloads", ErrPrecondition, len(targets), len(payloads))
	}
	return run(targets, func(i int, target T) error {
		return action(target, payloads[i])
	}), nil
}

func run[T any](targets []T, action func(int, T) error) BatchResult[T] {
	res := BatchResult[T]{
		Completed: make([]T, 0, len(targets)),
		Remaining: []T{},
		Success:   true,
	}
	for i, target := range targets {
		if err := action(i, target); err != nil {
			res.ErrorTarget = target
			res.ErrorDetail = err.Error()
			res.Success = false
			res.Remaining = append(res.Remaining, targets[i+1:]...)
			return res
		}
		res.Completed = append(res.Completed, target)
	}
	return res
}

// Distinct returns targets with later duplicates removed, keeping the
// order of first occurrence. Use it for inputs that are sets.
func Distinct[T comparable](targets []T) []T {
	seen := make(map[T]struct{}, len(targets))
	out := make([]T, 0, len(targets))
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
