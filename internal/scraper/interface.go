package scraper

import (
	"context"

	"job-hunt-agent/pkg/models"
)

// Extractor turns a set of pages into schema-shaped data through an extraction provider
type Extractor interface {
	// Extract performs one extraction. Transport and provider failures are
	// returned as errors; callers decide how to present them.
	Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResponse, error)
}

// Previewer scrapes a single page for diagnostics
type Previewer interface {
	Preview(ctx context.Context, url string) (*models.PreviewResponse, error)
}
