package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// TagRepository stores tag entities. Usage counts are adjusted best-effort as
// a side effect of node tag updates.
type TagRepository interface {
	// Get retrieves a tag by ID.
	Get(ctx context.Context, id string) (*models.Tag, error)

	// Create stores a new tag.
	Create(ctx context.Context, tag *models.Tag) error

	// ListByScope returns tags in the personal pool and, when orgID is
	// non-empty, the organization pool.
	ListByScope(ctx context.Context, userID, orgID string) ([]models.Tag, error)

	// AdjustUsage increments or decrements a tag's usage count.
	AdjustUsage(ctx context.Context, id string, delta int) error
}
