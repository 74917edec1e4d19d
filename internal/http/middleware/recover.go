package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"linkpreview/internal/http/respond"
)

// GenericErrorMessage replaces internal details outside development mode
const GenericErrorMessage = "Something went wrong"

// Recover turns panics into a 500 Internal Server Error envelope.
// The panic value is only echoed to the client when exposeDetails is set.
func Recover(logger *slog.Logger, exposeDetails bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Unhandled error",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				message := GenericErrorMessage
				if exposeDetails {
					message = fmt.Sprint(rec)
				}
				respond.Error(w, logger, http.StatusInternalServerError, "Internal Server Error", message)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
