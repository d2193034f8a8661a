package services

import (
	"context"

	"arbor/internal/domain/models"
)

// ActivityService exposes the audit trail written as a side effect of node
// creation and deletion.
type ActivityService interface {
	// ListRecent returns the newest entries visible to the caller,
	// newest-first, capped at limit.
	ListRecent(ctx context.Context, identity models.Identity, orgID string, limit int) ([]models.ActivityEntry, error)
}
