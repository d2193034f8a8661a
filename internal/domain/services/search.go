package services

import (
	"context"

	"arbor/internal/domain/models"
)

// SearchService ranks title-matching docs for link/search UI.
type SearchService interface {
	// Search returns ranked title matches across the caller's personal pool
	// plus, optionally, one organization pool. An empty query returns the
	// most recently updated docs.
	Search(ctx context.Context, identity models.Identity, opts *models.SearchOptions) ([]models.SearchResult, error)
}
