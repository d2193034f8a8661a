package services

import (
	"context"
	"encoding/json"

	"arbor/internal/domain/models"
)

// NodeService is the mutation/query surface of the node-tree engine. The
// acting identity is an explicit parameter on every operation: anonymous
// identities receive empty query results and rejected mutations.
type NodeService interface {
	// List returns all non-deleted nodes visible in the requested scope.
	List(ctx context.Context, identity models.Identity, orgID string) ([]models.Node, error)

	// Get returns a node, or nil when it is missing, deleted, or not visible
	// to the caller. Absence and denial are indistinguishable by design.
	Get(ctx context.Context, identity models.Identity, id string) (*models.Node, error)

	// GetChildren returns the non-deleted direct children of parentID
	// (nil = scope roots), ordered by sibling order.
	GetChildren(ctx context.Context, identity models.Identity, orgID string, parentID *string) ([]models.Node, error)

	// Create creates a folder or an empty doc, appended after its siblings.
	Create(ctx context.Context, identity models.Identity, req *CreateNodeRequest) (*models.Node, error)

	// CreateWithContent creates a doc with initial content and an initialized
	// version cursor.
	CreateWithContent(ctx context.Context, identity models.Identity, req *CreateDocumentRequest) (*models.Node, error)

	// UpdateTitle renames a node.
	UpdateTitle(ctx context.Context, identity models.Identity, id, title string) error

	// UpdateIcon changes a node's icon.
	UpdateIcon(ctx context.Context, identity models.Identity, id, icon string) error

	// UpdateDescription changes a node's description.
	UpdateDescription(ctx context.Context, identity models.Identity, id, description string) error

	// UpdateStatus moves a doc through its review workflow.
	UpdateStatus(ctx context.Context, identity models.Identity, id string, status models.DocStatus) error

	// UpdateTags replaces a node's tag set, adjusting tag usage counts
	// best-effort.
	UpdateTags(ctx context.Context, identity models.Identity, id string, tagIDs []string) error

	// UpdateContent writes doc content, snapshotting the prior content when
	// the write falls outside the batching window.
	UpdateContent(ctx context.Context, identity models.Identity, id string, content json.RawMessage) error

	// Move reparents a node, appending it after the new parent's children.
	Move(ctx context.Context, identity models.Identity, id string, newParentID *string) error

	// Reorder reparents and/or repositions a node, renumbering the destination
	// bucket to a contiguous 0-based sequence.
	Reorder(ctx context.Context, identity models.Identity, id string, newParentID *string, newOrder int) error

	// Remove soft-deletes a node and its direct children.
	Remove(ctx context.Context, identity models.Identity, id string) error

	// ToggleSharing flips a node between its owner's personal scope and an
	// organization scope.
	ToggleSharing(ctx context.Context, identity models.Identity, id string, orgID string) error

	// ListVersions returns a doc's historical snapshots newest-first.
	ListVersions(ctx context.Context, identity models.Identity, docID string) ([]models.DocumentVersion, error)
}

// CreateNodeRequest creates a folder or an empty doc.
type CreateNodeRequest struct {
	Type     models.NodeType `json:"type"`
	ParentID *string         `json:"parent_id,omitempty"`
	Title    string          `json:"title"`
	OrgID    string          `json:"org_id,omitempty"` // empty = personal scope
}

// CreateDocumentRequest creates a doc with initial content.
type CreateDocumentRequest struct {
	ParentID   *string         `json:"parent_id,omitempty"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	OrgID      string          `json:"org_id,omitempty"`
	SourceFile *string         `json:"source_file,omitempty"`
}
