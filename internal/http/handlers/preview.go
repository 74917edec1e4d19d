package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"linkpreview/internal/domain"
	"linkpreview/internal/http/respond"
	"linkpreview/internal/pkg/urlvalidator"
)

// Previewer produces link metadata for a URL
type Previewer interface {
	Preview(ctx context.Context, rawURL string) (domain.LinkMetadata, error)
}

// ValidationResponse is returned with 400 when the query is invalid
type ValidationResponse struct {
	Errors domain.ValidationErrors `json:"errors"`
}

type PreviewHandler struct {
	logger    *slog.Logger
	previewer Previewer
}

func NewPreviewHandler(logger *slog.Logger, previewer Previewer) *PreviewHandler {
	return &PreviewHandler{
		logger:    logger,
		previewer: previewer,
	}
}

// GetPreview handles GET /api/preview?url=...
func (h *PreviewHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")

	if errs := urlvalidator.ValidateQueryURL(rawURL); errs != nil {
		h.logger.Info("Rejected preview request", "url", rawURL, "error", errs)
		respond.JSON(w, h.logger, http.StatusBadRequest, ValidationResponse{Errors: errs})
		return
	}

	metadata, err := h.previewer.Preview(r.Context(), rawURL)
	if err != nil {
		h.logger.Error("API Error", "url", rawURL, "error", err)
		respond.Error(w, h.logger, http.StatusInternalServerError, "Failed to fetch link preview", err.Error())
		return
	}

	respond.JSON(w, h.logger, http.StatusOK, metadata)
}
