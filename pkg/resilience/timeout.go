// SPDX-License-Identifier: Apache-2.0
// Package resilience provides timeout and fallback boundaries for provider
// calls. Nothing here retries: an operation either succeeds once or its
// failure is handed to a fallback.
package resilience

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jllopis/rulesetgen/pkg/errors"
)

// TimeoutConfig controls timeout behavior.
type TimeoutConfig struct {
	// Duration is the maximum time allowed for the operation. Zero means the
	// caller's context is the only deadline.
	Duration time.Duration
}

// WithTimeout executes fn with a timeout boundary.
// Returns errors.CodeTimeout if the deadline is exceeded.
func WithTimeout(ctx context.Context, config TimeoutConfig, fn func(ctx context.Context) error) error {
	_, err := WithTimeoutResult(ctx, config, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// WithTimeoutResult executes fn with a timeout boundary, returning both
// result and error. fn receives the bounded context and should honor it; if
// it does not, its result is discarded once the deadline passes. A panic in
// fn is returned as a CodeProvider error.
func WithTimeoutResult[T any](ctx context.Context, config TimeoutConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Duration)
		defer cancel()
	}

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: errors.New(errors.CodeProvider, "provider panicked", fmt.Errorf("%v", r))}
			}
		}()
		value, err := fn(ctx)
		done <- result{value, err}
	}()

	select {
	case <-ctx.Done():
		return zero, contextError(ctx, config)
	case res := <-done:
		if res.err != nil && ctx.Err() != nil && stderrors.Is(res.err, ctx.Err()) {
			return zero, contextError(ctx, config)
		}
		return res.value, res.err
	}
}

// CheckContext reports a done ctx the same way WithTimeout does: an expired
// deadline is CodeTimeout, a cancellation is CodeInternal. It returns nil
// while ctx is live.
func CheckContext(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return contextError(ctx, TimeoutConfig{})
}

func contextError(ctx context.Context, config TimeoutConfig) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		e := errors.New(errors.CodeTimeout, "operation exceeded timeout", ctx.Err()).
			WithRecoverable(true)
		if config.Duration > 0 {
			e = e.WithContext("timeout", config.Duration.String())
		}
		return e
	}
	return errors.New(errors.CodeInternal, "operation cancelled", ctx.Err()).
		WithRecoverable(false)
}
