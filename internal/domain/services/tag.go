package services

import (
	"context"

	"arbor/internal/domain/models"
)

// TagService manages the tag entities referenced by node tag sets.
type TagService interface {
	// List returns tags visible to the caller: personal plus, when orgID is
	// set, the organization pool.
	List(ctx context.Context, identity models.Identity, orgID string) ([]models.Tag, error)

	// Create creates a tag in the caller's personal pool, or the organization
	// pool when orgID is set.
	Create(ctx context.Context, identity models.Identity, req *CreateTagRequest) (*models.Tag, error)
}

// CreateTagRequest creates a tag.
type CreateTagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
	OrgID string  `json:"org_id,omitempty"`
}
