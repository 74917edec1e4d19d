package domain

import (
	"context"
	"time"
)

// RateLimitStore counts hits per client key inside a fixed window
type RateLimitStore interface {
	// Increment records one hit for key and returns the hit count in the
	// current window together with the time that window resets.
	// A key's window starts at its first hit and lasts for window.
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)

	// Reset forgets all hits recorded for key
	Reset(ctx context.Context, key string) error
}
