package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenBucketAllowAndRefill(t *testing.T) {
	tb := NewTokenBucket(Config{RequestsPerSec: 5, Burst: 5})
	clock := time.Now()
	tb.now = func() time.Time { return clock }
	tb.last = clock

	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Fatalf("expected token available at %d", i)
		}
	}
	if tb.Allow() {
		t.Fatalf("expected no token after burst")
	}

	clock = clock.Add(250 * time.Millisecond)
	if !tb.Allow() {
		t.Fatalf("expected token after partial refill")
	}
}

func TestTokenBucketWaitRespectsContext(t *testing.T) {
	tb := NewTokenBucket(Config{RequestsPerSec: 1, Burst: 1})
	if !tb.Allow() {
		t.Fatalf("expected first token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); err == nil {
		t.Fatalf("expected timeout")
	}
}

func TestFixedDelay(t *testing.T) {
	fd := NewFixedDelay(Config{FixedDelay: 50 * time.Millisecond})
	if !fd.Allow() {
		t.Fatalf("expected first allow")
	}
	if fd.Allow() {
		t.Fatalf("expected second allow inside the delay to be refused")
	}

	start := time.Now()
	if err := fd.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) < 25*time.Millisecond {
		t.Fatalf("expected Wait to sleep for the remaining delay")
	}
}

func TestNewSelectsStrategy(t *testing.T) {
	if _, ok := New(Config{Strategy: StrategyFixedDelay}).(*FixedDelay); !ok {
		t.Fatalf("expected fixed delay limiter")
	}
	if _, ok := New(Config{}).(*TokenBucket); !ok {
		t.Fatalf("expected token bucket by default")
	}
}

func TestBackoffBounds(t *testing.T) {
	cfg := Config{InitialBackoff: time.Second, MaxBackoff: 10 * time.Second, BackoffMultiplier: 2, MaxRetries: 5}

	for attempt := 1; attempt <= 5; attempt++ {
		d := Backoff(attempt, cfg)
		if d <= 0 {
			t.Fatalf("backoff should be positive")
		}
		if d > cfg.MaxBackoff {
			t.Fatalf("backoff should cap at max")
		}
	}
	if d := Backoff(10, cfg); d != cfg.MaxBackoff {
		t.Fatalf("expected max backoff when attempts exceed max retries")
	}
	if d := Backoff(0, cfg); d != 0 {
		t.Fatalf("expected no backoff before the first retry")
	}
}

func fastConfig() Config {
	return Config{
		RequestsPerSec: 1000,
		Burst:          100,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDoRetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), New(fastConfig()), func(context.Context) error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("status 503")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), New(fastConfig()), func(context.Context) error {
		calls++
		return &RetryableError{Err: errors.New("status 429"), After: time.Millisecond}
	})
	var retry *RetryableError
	if !errors.As(err, &retry) {
		t.Fatalf("expected last retryable error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected initial call plus 2 retries, got %d", calls)
	}
}

func TestDoWithoutRetries(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxRetries = 0
	l := New(cfg)
	if l.MaxRetries() != 0 {
		t.Fatalf("expected zero retries to be kept, got %d", l.MaxRetries())
	}
	calls := 0
	err := Do(context.Background(), l, func(context.Context) error {
		calls++
		return &RetryableError{Err: errors.New("status 503")}
	})
	if err == nil || calls != 1 {
		t.Fatalf("expected a single failed call, got %d calls and %v", calls, err)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("status 400")
	calls := 0
	err := Do(context.Background(), New(fastConfig()), func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) || calls != 1 {
		t.Fatalf("expected one call and the permanent error, got %d calls err=%v", calls, err)
	}
}
