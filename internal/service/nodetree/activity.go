package nodetree

import (
	"context"
	"log/slog"

	"arbor/internal/config"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

// activityService implements the ActivityService interface
type activityService struct {
	activityRepo repositories.ActivityRepository
	logger       *slog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repositories.ActivityRepository, logger *slog.Logger) services.ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// ListRecent returns the newest audit trail entries visible to the caller.
func (s *activityService) ListRecent(ctx context.Context, identity models.Identity, orgID string, limit int) ([]models.ActivityEntry, error) {
	if identity.IsAnonymous() {
		return []models.ActivityEntry{}, nil
	}
	if limit <= 0 {
		limit = config.DefaultActivityLimit
	}
	if limit > config.MaxActivityLimit {
		limit = config.MaxActivityLimit
	}
	return s.activityRepo.ListRecent(ctx, identity.UserID, orgID, limit)
}
