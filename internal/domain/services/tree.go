package services

import (
	"context"

	"arbor/internal/domain/models"
)

// Default tree walk bounds.
const (
	DefaultContributorLimit = 8
	DefaultDescendantDepth  = 3
)

// TreeService exposes the subtree traversals: folder statistics, contributor
// aggregation, and bounded-depth descendant listing.
type TreeService interface {
	// GetFolderStats aggregates counts and an estimated word total over a
	// folder's live subtree.
	GetFolderStats(ctx context.Context, identity models.Identity, folderID string) (*models.FolderStats, error)

	// GetFolderContributors ranks editors of a folder's descendant docs by
	// recency, capped at limit (default 8).
	GetFolderContributors(ctx context.Context, identity models.Identity, folderID string, limit int) ([]models.Contributor, error)

	// GetDescendants returns a nested snapshot of a folder's subtree down to
	// maxDepth levels (default 3), siblings ordered by sibling order.
	GetDescendants(ctx context.Context, identity models.Identity, folderID string, maxDepth int) ([]*models.DescendantNode, error)
}
