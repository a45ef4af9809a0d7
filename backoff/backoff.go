// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package backoff provides the single retry and polling policy shared by
// every component that waits on an external service. Index readiness
// polling and transient-call retries both go through Retry so delay
// behavior is configured in one place.
package backoff

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrInvalidMaxAttempts is returned when a policy's MaxAttempts is <= 0
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

// Policy describes how an operation is retried.
type Policy struct {
	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration

	// Multiplier scales the delay after each failed attempt. Values
	// below 1 are treated as 1, which gives fixed-interval polling.
	Multiplier float64

	// MaxAttempts caps the number of attempts. Must be > 0.
	MaxAttempts int

	// MaxElapsed caps the total time spent waiting between attempts.
	// Zero means attempts alone bound the retry loop.
	MaxElapsed time.Duration
}

// Retry runs operation until it succeeds, the policy is exhausted, or ctx
// is done. The context is checked before each attempt and while waiting
// between attempts. Returns the last attempt's error when the policy is
// exhausted, or the context's error on cancellation.
func Retry(ctx context.Context, policy Policy, operation func() error) error {
	if policy.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	multiplier := policy.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	start := time.Now()
	delay := policy.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", policy.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == policy.MaxAttempts {
			break
		}

		if policy.MaxElapsed > 0 && time.Since(start)+delay > policy.MaxElapsed {
			break
		}

		// Sleep with context awareness
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * multiplier)
	}

	return lastErr
}
