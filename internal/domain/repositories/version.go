package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// VersionRepository stores immutable document snapshots.
type VersionRepository interface {
	// Insert stores a new snapshot. Versions are never updated or deleted.
	Insert(ctx context.Context, version *models.DocumentVersion) error

	// ListByDoc returns a doc's snapshots newest-first.
	ListByDoc(ctx context.Context, docID string) ([]models.DocumentVersion, error)
}
