package preview

import (
	"context"
	"log/slog"

	"linkpreview/internal/domain"
)

// PageFetcher retrieves the raw markup of a page
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Service produces link previews
type Service struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// NewService creates a new preview service
func NewService(fetcher PageFetcher, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Preview fetches rawURL and extracts its metadata.
// Fetch errors are logged and returned unchanged.
func (s *Service) Preview(ctx context.Context, rawURL string) (domain.LinkMetadata, error) {
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Error("Error fetching metadata", "url", rawURL, "error", err)
		return nil, err
	}

	metadata := Extract(body, rawURL)

	s.logger.Info("Link preview extracted",
		"url", rawURL,
		"fields", len(metadata),
		"has_title", metadata[domain.FieldTitle] != "",
		"has_image", metadata[domain.FieldImage] != "",
	)

	return metadata, nil
}
