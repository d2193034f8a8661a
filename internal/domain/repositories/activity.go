package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// ActivityRepository is the append-only audit trail sink. Writes are
// best-effort: callers log failures and move on.
type ActivityRepository interface {
	// Record appends one audit trail entry.
	Record(ctx context.Context, entry *models.ActivityEntry) error

	// ListRecent returns the newest entries visible to the caller.
	ListRecent(ctx context.Context, userID, orgID string, limit int) ([]models.ActivityEntry, error)
}
