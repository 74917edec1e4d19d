package middleware

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"linkpreview/internal/service/ratelimit"
)

// RateLimitMessage is the body sent with 429 responses
const RateLimitMessage = "Too many requests from this IP, please try again later."

// Limiter decides whether a client may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// KeyFunc derives the rate limit key for a request
type KeyFunc func(r *http.Request) string

// ClientIP keys requests by the peer address. When trustProxy is set the
// first X-Forwarded-For hop is used instead.
func ClientIP(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				first, _, _ := strings.Cut(fwd, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
}

// RateLimit rejects clients that exceed the limiter's budget with 429.
// Limiter failures are logged and the request is let through.
func RateLimit(limiter Limiter, keyFunc KeyFunc, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("Rate limiter unavailable, allowing request",
					"error", err,
					"client", key,
				)
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			resetSeconds := int(math.Ceil(decision.RetryAfter(now).Seconds()))

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(resetSeconds))

			if !decision.Allowed {
				logger.Warn("Rate limit exceeded",
					"client", key,
					"path", r.URL.Path,
				)
				h.Set("Retry-After", strconv.Itoa(resetSeconds))
				http.Error(w, RateLimitMessage, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
