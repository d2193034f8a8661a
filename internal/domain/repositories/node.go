package repositories

import (
	"context"
	"encoding/json"
	"time"

	"arbor/internal/domain/models"
)

// Audit carries the last-writer fields stamped on every node write.
type Audit struct {
	At     time.Time
	By     string
	ByName string
}

// MetaPatch is a partial update of a node's descriptive fields. Nil fields
// are left untouched.
type MetaPatch struct {
	Title       *string
	Icon        *string
	Description *string
	Status      *models.DocStatus
	TagIDs      []string // nil = untouched, empty slice = clear
}

// NodeRepository is the transactional table of tree entities. Each method is
// atomic per call; validation and multi-row invariants are enforced by the
// engine services on top.
type NodeRepository interface {
	// Get retrieves a node by ID. Soft-deleted nodes are reported as not found.
	Get(ctx context.Context, id string) (*models.Node, error)

	// Insert stores a new node.
	Insert(ctx context.Context, node *models.Node) error

	// UpdateMeta applies a partial update of descriptive fields plus audit.
	UpdateMeta(ctx context.Context, id string, patch MetaPatch, audit Audit) error

	// UpdateParentOrder reparents a node and assigns its sibling order.
	UpdateParentOrder(ctx context.Context, id string, parentID *string, order int, audit Audit) error

	// UpdateOrder renumbers a single sibling. Does not touch audit fields:
	// renumbering neighbors is bookkeeping, not an edit.
	UpdateOrder(ctx context.Context, id string, order int) error

	// UpdateContent replaces a doc's content without moving the version cursor.
	UpdateContent(ctx context.Context, id string, content json.RawMessage, audit Audit) error

	// InitVersionCursor applies a doc's first content write and initializes
	// its version cursor.
	InitVersionCursor(ctx context.Context, id string, content json.RawMessage, major, minor int, versionString string, snapshotAt time.Time, audit Audit) error

	// AdvanceVersionCursor applies new content and advances the version cursor,
	// conditioned on last_version_snapshot_at still holding expectedSnapshotAt.
	// Returns false without writing when the cursor moved underneath us.
	AdvanceVersionCursor(ctx context.Context, id string, content json.RawMessage, expectedSnapshotAt time.Time, minor int, versionString string, snapshotAt time.Time, audit Audit) (bool, error)

	// SetScope flips the node's visibility scope. Exactly one of ownerID/orgID
	// must be non-nil.
	SetScope(ctx context.Context, id string, ownerID, orgID *string, audit Audit) error

	// MarkDeleted soft-deletes the given nodes.
	MarkDeleted(ctx context.Context, ids []string, deletedAt time.Time, audit Audit) error

	// ListByScope returns all non-deleted nodes in a scope, content included.
	// This is the arena the tree walker's adjacency index is built from.
	ListByScope(ctx context.Context, scope models.Scope) ([]models.Node, error)

	// ListChildren returns the non-deleted direct children of parentID
	// (nil = scope roots) ordered by sibling order. Content is omitted.
	ListChildren(ctx context.Context, scope models.Scope, parentID *string) ([]models.Node, error)

	// MaxSiblingOrder returns the highest sibling order in a (scope, parent)
	// bucket, or ok=false when the bucket is empty.
	MaxSiblingOrder(ctx context.Context, scope models.Scope, parentID *string) (int, bool, error)

	// SearchCandidates returns non-deleted docs across the personal pool and,
	// when orgID is non-empty, the organization pool. Content is omitted.
	SearchCandidates(ctx context.Context, userID, orgID string) ([]models.Node, error)
}
