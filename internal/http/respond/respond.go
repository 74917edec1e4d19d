package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON envelope for failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as a JSON response with the given status code
func JSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err, "status", status)
	}
}

// Error writes an ErrorResponse envelope
func Error(w http.ResponseWriter, logger *slog.Logger, status int, errText, message string) {
	JSON(w, logger, status, ErrorResponse{Error: errText, Message: message})
}
