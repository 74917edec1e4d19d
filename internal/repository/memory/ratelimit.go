package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type window struct {
	count   int64
	resetAt time.Time
}

// RateLimitStore implements domain.RateLimitStore in process memory.
// Expired windows are evicted by a background janitor.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	logger  *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimitStore creates a store whose janitor sweeps expired windows
// every cleanupInterval. A non-positive interval disables the janitor.
func NewRateLimitStore(cleanupInterval time.Duration, logger *slog.Logger) *RateLimitStore {
	s := &RateLimitStore{
		windows: make(map[string]*window),
		now:     time.Now,
		logger:  logger,
		stop:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go s.janitor(cleanupInterval)
	}

	return s
}

// Increment records one hit for key
func (s *RateLimitStore) Increment(_ context.Context, key string, length time.Duration) (int64, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(length)}
		s.windows[key] = w
	}
	w.count++

	return w.count, w.resetAt, nil
}

// Reset forgets key
func (s *RateLimitStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of tracked keys
func (s *RateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Close stops the janitor
func (s *RateLimitStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *RateLimitStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if evicted := s.evictExpired(); evicted > 0 {
				s.logger.Debug("Evicted expired rate limit windows", "count", evicted)
			}
		}
	}
}

func (s *RateLimitStore) evictExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			evicted++
		}
	}
	return evicted
}
