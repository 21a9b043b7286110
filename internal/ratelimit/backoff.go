package ratelimit

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Backoff computes exponential backoff with +/-25% jitter, capped at
// MaxBackoff.
func Backoff(attempt int, cfg Config) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > cfg.MaxRetries {
		return cfg.MaxBackoff
	}

	base := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1))
	if base > float64(cfg.MaxBackoff) {
		base = float64(cfg.MaxBackoff)
	}
	d := base + base*0.25*(2*rand.Float64()-1)
	if d < 0 {
		d = 0
	}
	if d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	return time.Duration(d)
}

// RetryableError marks an error as worth retrying. After, when set,
// overrides the computed backoff.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// Do waits on l before each attempt of fn and retries RetryableErrors
// until l.MaxRetries is exhausted.
func Do(ctx context.Context, l Limiter, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		if err := l.Wait(ctx); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var retry *RetryableError
		if !errors.As(err, &retry) || attempt >= l.MaxRetries() {
			return err
		}
		wait := retry.After
		if wait <= 0 {
			wait = l.RetryAfter(attempt + 1)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return serr
		}
	}
}
