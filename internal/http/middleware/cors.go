package middleware

import (
	"log/slog"
	"net/http"
	"slices"
)

// CORS allows cross-origin GET requests from the listed origins only.
// With an empty list no CORS headers are ever sent, so browsers keep
// rejecting cross-origin reads.
func CORS(allowedOrigins []string, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		if len(allowedOrigins) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			allowed := origin != "" && slices.Contains(allowedOrigins, origin)
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if !allowed {
					logger.Warn("CORS preflight rejected", "origin", origin, "path", r.URL.Path)
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
