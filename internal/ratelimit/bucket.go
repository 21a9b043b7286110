package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket allows bursts up to Burst and refills at RequestsPerSec.
type TokenBucket struct {
	mu     sync.Mutex
	cfg    Config
	tokens float64
	last   time.Time
	now    func() time.Time
}

// NewTokenBucket returns a full bucket.
func NewTokenBucket(cfg Config) *TokenBucket {
	cfg = ApplyDefaults(cfg)
	return &TokenBucket{
		cfg:    cfg,
		tokens: float64(cfg.Burst),
		last:   time.Now(),
		now:    time.Now,
	}
}

// Wait takes a token, sleeping until one is available or ctx is done.
func (b *TokenBucket) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refill()
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := time.Duration((1-b.tokens)/b.cfg.RequestsPerSec*float64(time.Second)) + time.Nanosecond
		b.mu.Unlock()

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Allow takes a token if one is available now.
func (b *TokenBucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (b *TokenBucket) RetryAfter(attempt int) time.Duration {
	return Backoff(attempt, b.cfg)
}

func (b *TokenBucket) MaxRetries() int {
	return b.cfg.MaxRetries
}

// refill must be called with mu held.
func (b *TokenBucket) refill() {
	now := b.now()
	elapsed := now.Sub(b.last)
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed.Seconds() * b.cfg.RequestsPerSec
	if limit := float64(b.cfg.Burst); b.tokens > limit {
		b.tokens = limit
	}
	b.last = now
}

// FixedDelay spaces requests at least FixedDelay apart.
type FixedDelay struct {
	mu   sync.Mutex
	cfg  Config
	next time.Time
}

// NewFixedDelay returns a limiter whose first request passes immediately.
func NewFixedDelay(cfg Config) *FixedDelay {
	return &FixedDelay{cfg: ApplyDefaults(cfg)}
}

// Wait reserves the next slot and sleeps until it starts.
func (f *FixedDelay) Wait(ctx context.Context) error {
	f.mu.Lock()
	now := time.Now()
	slot := f.next
	if slot.Before(now) {
		slot = now
	}
	f.next = slot.Add(f.cfg.FixedDelay)
	f.mu.Unlock()

	return sleep(ctx, slot.Sub(now))
}

// Allow reports whether a request may go now and reserves it if so.
func (f *FixedDelay) Allow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	if now.Before(f.next) {
		return false
	}
	f.next = now.Add(f.cfg.FixedDelay)
	return true
}

func (f *FixedDelay) RetryAfter(attempt int) time.Duration {
	return Backoff(attempt, f.cfg)
}

func (f *FixedDelay) MaxRetries() int {
	return f.cfg.MaxRetries
}
