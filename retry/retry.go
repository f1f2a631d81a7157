// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package retry provides a function for retrying an operation.
package retry

import (
	"context"
	"errors"
	"time"

	"zombiezen.com/go/log"
)

// A BackoffStrategy can be called repeatedly to obtain (presumably) increasing
// durations to wait between retries.
type BackoffStrategy interface {
	Duration() time.Duration
}

// Constant is a BackoffStrategy that always waits the same duration.
type Constant time.Duration

// Duration returns the constant duration.
func (c Constant) Duration() time.Duration {
	return time.Duration(c)
}

// Exponential is a BackoffStrategy that waits Initial before the first retry
// and multiplies the wait by Factor after each retry, up to Max.
// An Exponential must not be shared by concurrent calls to Do.
type Exponential struct {
	Initial time.Duration
	Max     time.Duration // no limit if zero
	Factor  float64       // 2 if zero

	prev time.Duration
}

// Duration returns the next wait.
func (e *Exponential) Duration() time.Duration {
	if e.prev == 0 {
		e.prev = e.Initial
		return e.prev
	}
	factor := e.Factor
	if factor == 0 {
		factor = 2
	}
	e.prev = time.Duration(float64(e.prev) * factor)
	if e.Max > 0 && e.prev > e.Max {
		e.prev = e.Max
	}
	return e.prev
}

// Reset makes the next call to Duration return Initial.
func (e *Exponential) Reset() {
	e.prev = 0
}

// Permanent wraps err so that Do returns it without retrying.
// Permanent(nil) returns nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Do calls a function repeatedly, waiting between calls as directed by the
// strategy, until it returns a nil error. Do returns an error only if the
// passed-in function does not return nil before the Context is Done, or if
// it returns an error wrapped with Permanent; the error is the last one
// returned by the function, with the Permanent wrapper removed. The function
// is guaranteed to be called at least once.
//
// The operation should be a verb phrase like "talking to Alice" for logging.
func Do(ctx context.Context, operation string, strategy BackoffStrategy, f func() error) error {
	var t *time.Timer
	for attempt := 1; ; attempt++ {
		err := f()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		d := strategy.Duration()
		if d <= 0 {
			log.Warnf(ctx, "Error %s (attempt %d, will retry): %v", operation, attempt, err)
			select {
			case <-ctx.Done():
				return err
			default:
			}
			continue
		}
		log.Warnf(ctx, "Error %s (attempt %d, will retry in %v): %v", operation, attempt, d, err)
		if t == nil {
			t = time.NewTimer(d)
			defer t.Stop()
		} else {
			t.Reset(d)
		}
		select {
		case <-t.C:
		case <-ctx.Done():
			return err
		}
	}
}
