package nodetree

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// tagService implements the TagService interface
type tagService struct {
	tagRepo repositories.TagRepository
	logger  *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(tagRepo repositories.TagRepository, logger *slog.Logger) services.TagService {
	return &tagService{
		tagRepo: tagRepo,
		logger:  logger,
	}
}

// List returns tags visible to the caller.
func (s *tagService) List(ctx context.Context, identity models.Identity, orgID string) ([]models.Tag, error) {
	if identity.IsAnonymous() {
		return []models.Tag{}, nil
	}
	return s.tagRepo.ListByScope(ctx, identity.UserID, orgID)
}

// Create creates a tag in the caller's personal or organization pool.
func (s *tagService) Create(ctx context.Context, identity models.Identity, req *services.CreateTagRequest) (*models.Tag, error) {
	if identity.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxTagNameLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tag := &models.Tag{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now().UTC(),
	}
	if req.OrgID != "" {
		tag.OrgID = &req.OrgID
	} else {
		userID := identity.UserID
		tag.OwnerID = &userID
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
