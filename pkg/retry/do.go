// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retry re-runs an operation with backoff until it succeeds, the
// retry condition rejects the error, or the context ends.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Func must respect the provided context
type Func func(ctx context.Context) error

// RetryIf returns true when err is worth another attempt
type RetryIf func(error) bool

// Backoff returns the wait before the next attempt; attempt starts from 0
type Backoff interface {
	Next(attempt int) time.Duration
}

type fixedBackoff time.Duration

func (b fixedBackoff) Next(int) time.Duration {
	return time.Duration(b)
}

func Fixed(interval time.Duration) Backoff {
	return fixedBackoff(interval)
}

type exponentialBackoff struct {
	base time.Duration
	max  time.Duration
}

func (b exponentialBackoff) Next(attempt int) time.Duration {
	d := b.base << attempt
	if b.max > 0 && (d > b.max || d <= 0) {
		return b.max
	}
	return d
}

// Exponential doubles base on every attempt, capped at max when max > 0
func Exponential(base, max time.Duration) Backoff {
	return exponentialBackoff{base: base, max: max}
}

type Jitter func(time.Duration) time.Duration

func NoJitter(d time.Duration) time.Duration {
	return d
}

// FullJitter picks a random wait in [0, d)
func FullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return rand.N(d)
}

type config struct {
	maxAttempts int
	backoff     Backoff
	jitter      Jitter
	retryIf     RetryIf
	onRetry     func(attempt int, err error)
}

type Option func(*config)

// WithMaxAttempts counts the first attempt too
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

func WithJitter(j Jitter) Option {
	return func(c *config) {
		if j != nil {
			c.jitter = j
		}
	}
}

func WithRetryIf(fn RetryIf) Option {
	return func(c *config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// WithOnRetry is called before each wait, typically to log the failure
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}

// Do runs fn until it succeeds or gives up, returning the last error
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{
		maxAttempts: 3,
		backoff:     Fixed(time.Second),
		jitter:      NoJitter,
		retryIf:     IsRetryableError,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !cfg.retryIf(lastErr) || attempt == cfg.maxAttempts-1 {
			return lastErr
		}
		if cfg.onRetry != nil {
			cfg.onRetry(attempt+1, lastErr)
		}

		wait := cfg.jitter(cfg.backoff.Next(attempt))
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		}
	}
	return lastErr
}

// IsRetryableError retries everything except context cancellation and deadline
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
