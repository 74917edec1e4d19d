package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key pattern: ratelimit:<client key>
const rateLimitKeyPrefix = "ratelimit:"

// RateLimitStore implements the domain.RateLimitStore interface using Redis.
// Counters are shared by every API instance pointing at the same Redis.
type RateLimitStore struct {
	client *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewRateLimitStore creates a new Redis rate limit store
func NewRateLimitStore(client *redis.Client, logger *slog.Logger) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Increment records one hit for key. The key expires when its window ends,
// which starts the next window on the following hit.
func (s *RateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	redisKey := rateLimitKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pttl := pipe.PTTL(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	ttl := pttl.Val()
	if ttl < 0 {
		// First hit of a window: the counter has no expiry yet
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
		ttl = window
	}

	count := incr.Val()
	if count == 1 {
		s.logger.Debug("Rate limit window started",
			"key", key,
			"window", window,
		)
	}

	return count, s.now().Add(ttl), nil
}

// Reset forgets all hits recorded for key
func (s *RateLimitStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, rateLimitKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit counter: %w", err)
	}
	return nil
}
