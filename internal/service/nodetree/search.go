package nodetree

import (
	"context"
	"log/slog"

	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

// searchService implements the SearchService interface
type searchService struct {
	nodeRepo repositories.NodeRepository
	logger   *slog.Logger
}

// NewSearchService creates a new title search service
func NewSearchService(nodeRepo repositories.NodeRepository, logger *slog.Logger) services.SearchService {
	return &searchService{
		nodeRepo: nodeRepo,
		logger:   logger,
	}
}

// Search ranks title matches across the caller's personal pool and, when set,
// one organization pool. Anonymous callers get an empty result.
func (s *searchService) Search(ctx context.Context, identity models.Identity, opts *models.SearchOptions) ([]models.SearchResult, error) {
	if identity.IsAnonymous() {
		return []models.SearchResult{}, nil
	}

	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.nodeRepo.SearchCandidates(ctx, identity.UserID, opts.OrgID)
	if err != nil {
		return nil, err
	}

	return rankByTitle(candidates, opts.Query, opts.Limit), nil
}
