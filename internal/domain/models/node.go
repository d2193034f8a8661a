package models

import (
	"encoding/json"
	"time"
)

// NodeType discriminates folders from documents. Immutable after creation.
type NodeType string

const (
	NodeTypeFolder NodeType = "folder"
	NodeTypeDoc    NodeType = "doc"
)

// DocStatus is the review workflow state of a document.
type DocStatus string

const (
	DocStatusDraft    DocStatus = "draft"
	DocStatusInReview DocStatus = "in_review"
	DocStatusFinal    DocStatus = "final"
)

// Scope identifies the visibility pool a node lives in. Exactly one of
// OwnerID (personal) or OrgID (organization) is set.
type Scope struct {
	OwnerID string `json:"owner_id,omitempty"`
	OrgID   string `json:"org_id,omitempty"`
}

// PersonalScope returns the personal scope of a user.
func PersonalScope(userID string) Scope {
	return Scope{OwnerID: userID}
}

// OrgScope returns the shared scope of an organization.
func OrgScope(orgID string) Scope {
	return Scope{OrgID: orgID}
}

// IsOrg reports whether the scope is an organization pool.
func (s Scope) IsOrg() bool {
	return s.OrgID != ""
}

// IsZero reports whether the scope is unset.
func (s Scope) IsZero() bool {
	return s.OwnerID == "" && s.OrgID == ""
}

// Node is a folder or document in the tree.
//
// Sibling display order is `Order`, unique by convention among siblings that
// share the same (scope, parent_id) bucket; it is not required to be
// contiguous except immediately after a reorder normalizes the bucket.
type Node struct {
	ID          string          `json:"id" db:"id"`
	Type        NodeType        `json:"type" db:"type"`
	ParentID    *string         `json:"parent_id" db:"parent_id"` // NULL = root of its scope
	Title       string          `json:"title" db:"title"`
	Icon        *string         `json:"icon,omitempty" db:"icon"`
	Description *string         `json:"description,omitempty" db:"description"`
	Order       int             `json:"order" db:"sort_order"`
	OwnerID     *string         `json:"owner_id,omitempty" db:"owner_id"`
	OrgID       *string         `json:"org_id,omitempty" db:"org_id"`
	Content     json.RawMessage `json:"content,omitempty" db:"content"` // opaque payload, docs only, nil until first save
	Status      *DocStatus      `json:"status,omitempty" db:"status"`
	TagIDs      []string        `json:"tag_ids,omitempty" db:"tag_ids"`
	SourceFile  *string         `json:"source_file,omitempty" db:"source_file"`

	// Versioning cursor, set once a doc has been saved at least once.
	CurrentMajorVersion   *int       `json:"current_major_version,omitempty" db:"current_major_version"`
	CurrentMinorVersion   *int       `json:"current_minor_version,omitempty" db:"current_minor_version"`
	CurrentVersionString  *string    `json:"current_version_string,omitempty" db:"current_version_string"`
	LastVersionSnapshotAt *time.Time `json:"last_version_snapshot_at,omitempty" db:"last_version_snapshot_at"`

	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy     string    `json:"updated_by" db:"updated_by"`
	UpdatedByName string    `json:"updated_by_name" db:"updated_by_name"`
}

// Scope returns the visibility scope the node lives in.
func (n *Node) Scope() Scope {
	if n.OrgID != nil && *n.OrgID != "" {
		return OrgScope(*n.OrgID)
	}
	if n.OwnerID != nil {
		return PersonalScope(*n.OwnerID)
	}
	return Scope{}
}

// IsDoc reports whether the node is a document.
func (n *Node) IsDoc() bool {
	return n.Type == NodeTypeDoc
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Type == NodeTypeFolder
}

// HasContent reports whether a doc has been saved at least once.
// A doc without content is "unversioned": its first content write initializes
// the version cursor instead of freezing a snapshot.
func (n *Node) HasContent() bool {
	return len(n.Content) > 0
}
