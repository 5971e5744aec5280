// SPDX-License-Identifier: Apache-2.0
package resilience

import (
	"context"
)

// FallbackStrategy defines a fallback behavior when primary operation fails.
type FallbackStrategy[T any] interface {
	// Execute runs the fallback operation.
	Execute(ctx context.Context, primaryErr error) T
}

// FallbackFunc wraps a function as a FallbackStrategy.
type FallbackFunc[T any] func(ctx context.Context, primaryErr error) T

// Execute implements FallbackStrategy.
func (f FallbackFunc[T]) Execute(ctx context.Context, err error) T {
	return f(ctx, err)
}

// StaticFallback returns a static value on failure.
type StaticFallback[T any] struct {
	Value T
}

// Execute implements FallbackStrategy.
func (s StaticFallback[T]) Execute(ctx context.Context, primaryErr error) T {
	return s.Value
}

// Outcome reports which path produced a WithFallback result.
type Outcome struct {
	// Err is the primary failure, nil when the primary succeeded.
	Err error
}

// Degraded reports whether the fallback produced the value.
func (o Outcome) Degraded() bool { return o.Err != nil }

// WithFallback executes fn, and on error, uses the fallback strategy.
// Fallbacks are total, so WithFallback always yields a value.
func WithFallback[T any](ctx context.Context, fn func(ctx context.Context) (T, error), fallback FallbackStrategy[T]) (T, Outcome) {
	value, err := fn(ctx)
	if err == nil {
		return value, Outcome{}
	}
	return fallback.Execute(ctx, err), Outcome{Err: err}
}
