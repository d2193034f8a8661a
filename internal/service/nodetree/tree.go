package nodetree

import (
	"context"
	"errors"
	"log/slog"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

// treeService implements the TreeService interface. Every operation loads the
// folder's scope as an arena, builds the parent-indexed adjacency once, then
// runs a worklist traversal over it. One scope query per call beats a query
// per tree level.
type treeService struct {
	nodeRepo  repositories.NodeRepository
	extractor services.TextExtractor
	logger    *slog.Logger
}

// NewTreeService creates a new tree traversal service
func NewTreeService(
	nodeRepo repositories.NodeRepository,
	extractor services.TextExtractor,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		nodeRepo:  nodeRepo,
		extractor: extractor,
		logger:    logger,
	}
}

// GetFolderStats aggregates doc/folder counts and estimated words over a
// folder's full subtree. Returns nil when the folder is missing, deleted, or
// not visible to the caller.
func (s *treeService) GetFolderStats(ctx context.Context, identity models.Identity, folderID string) (*models.FolderStats, error) {
	adj, folder, err := s.loadFolder(ctx, identity, folderID)
	if err != nil || folder == nil {
		return nil, err
	}
	return folderStats(adj, folder.ID, s.extractor), nil
}

// GetFolderContributors returns the folder's descendant-doc editors, folded
// by last writer and ranked by most recent activity.
func (s *treeService) GetFolderContributors(ctx context.Context, identity models.Identity, folderID string, limit int) ([]models.Contributor, error) {
	if limit <= 0 {
		limit = services.DefaultContributorLimit
	}
	adj, folder, err := s.loadFolder(ctx, identity, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return []models.Contributor{}, nil
	}
	out := contributors(adj, folder.ID, limit)
	if out == nil {
		out = []models.Contributor{}
	}
	return out, nil
}

// GetDescendants returns a nested snapshot of the folder's subtree down to
// maxDepth levels, siblings in sibling order.
func (s *treeService) GetDescendants(ctx context.Context, identity models.Identity, folderID string, maxDepth int) ([]*models.DescendantNode, error) {
	if maxDepth <= 0 {
		maxDepth = services.DefaultDescendantDepth
	}
	adj, folder, err := s.loadFolder(ctx, identity, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return []*models.DescendantNode{}, nil
	}
	out := descendants(adj, folder.ID, maxDepth)
	if out == nil {
		out = []*models.DescendantNode{}
	}
	return out, nil
}

// loadFolder resolves a visible folder and the adjacency index of its scope.
// Invisible folders come back nil without error, matching the query-side
// visibility rule.
func (s *treeService) loadFolder(ctx context.Context, identity models.Identity, folderID string) (*adjacency, *models.Node, error) {
	if identity.IsAnonymous() {
		return nil, nil, nil
	}
	folder, err := s.nodeRepo.Get(ctx, folderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if !folder.IsFolder() || !canAccess(identity, folder) {
		return nil, nil, nil
	}

	arena, err := s.nodeRepo.ListByScope(ctx, folder.Scope())
	if err != nil {
		return nil, nil, err
	}
	return buildAdjacency(arena), folder, nil
}
