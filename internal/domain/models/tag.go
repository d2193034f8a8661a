package models

import "time"

// Tag is a label attachable to nodes. The owning side of the relation is the
// node (Node.TagIDs); UsageCount is maintained best-effort as a side effect
// of tag updates and is advisory, not authoritative.
type Tag struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Color      *string   `json:"color,omitempty" db:"color"`
	OwnerID    *string   `json:"owner_id,omitempty" db:"owner_id"`
	OrgID      *string   `json:"org_id,omitempty" db:"org_id"`
	UsageCount int       `json:"usage_count" db:"usage_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
