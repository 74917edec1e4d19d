package ratelimit

import (
	"context"
	"fmt"
	"time"

	"linkpreview/internal/domain"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the client should wait before the window resets
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if wait := d.ResetAt.Sub(now); wait > 0 {
		return wait
	}
	return 0
}

// Limiter allows at most max hits per client key in each window
type Limiter struct {
	store  domain.RateLimitStore
	max    int
	window time.Duration
}

// New creates a limiter backed by store
func New(store domain.RateLimitStore, max int, window time.Duration) (*Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("rate limit store is required")
	}
	if max <= 0 {
		return nil, fmt.Errorf("max must be positive, got %d", max)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}

	return &Limiter{
		store:  store,
		max:    max,
		window: window,
	}, nil
}

// Allow records a hit for key and reports whether it is within the limit
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetAt, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= int64(l.max),
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for key
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

// Window returns the configured window length
func (l *Limiter) Window() time.Duration {
	return l.window
}
