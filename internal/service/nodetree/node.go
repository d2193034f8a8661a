package nodetree

import (
	"context"
	"encoding/json"
	"errors"
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

// nodeService implements the NodeService interface
type nodeService struct {
	nodeRepo     repositories.NodeRepository
	versionRepo  repositories.VersionRepository
	tagRepo      repositories.TagRepository
	activityRepo repositories.ActivityRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger

	batchWindow time.Duration
	now         func() time.Time
}

// NewNodeService creates a new node service
func NewNodeService(
	nodeRepo repositories.NodeRepository,
	versionRepo repositories.VersionRepository,
	tagRepo repositories.TagRepository,
	activityRepo repositories.ActivityRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.NodeService {
	return &nodeService{
		nodeRepo:     nodeRepo,
		versionRepo:  versionRepo,
		tagRepo:      tagRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		logger:       logger,
		batchWindow:  config.VersionBatchWindow,
		now:          time.Now,
	}
}

// List returns all non-deleted nodes visible in the requested scope.
// Anonymous callers get an empty result, not an error.
func (s *nodeService) List(ctx context.Context, identity models.Identity, orgID string) ([]models.Node, error) {
	if identity.IsAnonymous() {
		return []models.Node{}, nil
	}
	return s.nodeRepo.ListByScope(ctx, scopeFor(identity, orgID))
}

// Get returns a node, or nil when it is missing, deleted, or not visible to
// the caller.
func (s *nodeService) Get(ctx context.Context, identity models.Identity, id string) (*models.Node, error) {
	node, err := s.visibleNode(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// GetChildren returns the non-deleted direct children of parentID, ordered by
// sibling order. A nil parentID addresses the roots of the requested scope.
func (s *nodeService) GetChildren(ctx context.Context, identity models.Identity, orgID string, parentID *string) ([]models.Node, error) {
	if identity.IsAnonymous() {
		return []models.Node{}, nil
	}

	scope := scopeFor(identity, orgID)
	if parentID != nil {
		parent, err := s.visibleNode(ctx, identity, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			// Invisible parents behave as absent.
			return []models.Node{}, nil
		}
		scope = parent.Scope()
	}

	return s.nodeRepo.ListChildren(ctx, scope, parentID)
}

// Create creates a folder or an empty doc, appended after its siblings.
func (s *nodeService) Create(ctx context.Context, identity models.Identity, req *services.CreateNodeRequest) (*models.Node, error) {
	if identity.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	if err := validateCreateNode(req); err != nil {
		return nil, err
	}

	scope := scopeFor(identity, req.OrgID)
	node := s.newNode(identity, req.Type, req.ParentID, req.Title, scope)

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.validateParent(txCtx, req.ParentID, scope, node.ID); err != nil {
			return err
		}
		order, err := s.nextSiblingOrder(txCtx, scope, req.ParentID)
		if err != nil {
			return err
		}
		node.Order = order
		return s.nodeRepo.Insert(txCtx, node)
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, identity, models.ActivityCreated, node)
	return node, nil
}

// CreateWithContent creates a doc with initial content and an initialized
// version cursor at v1.0. No snapshot is frozen for the initial content.
func (s *nodeService) CreateWithContent(ctx context.Context, identity models.Identity, req *services.CreateDocumentRequest) (*models.Node, error) {
	if identity.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	if err := validateCreateDocument(req); err != nil {
		return nil, err
	}

	scope := scopeFor(identity, req.OrgID)
	node := s.newNode(identity, models.NodeTypeDoc, req.ParentID, req.Title, scope)
	node.Content = req.Content
	node.SourceFile = req.SourceFile

	major, minor := 1, 0
	versionString := models.VersionString(major, minor)
	snapshotAt := node.CreatedAt
	node.CurrentMajorVersion = &major
	node.CurrentMinorVersion = &minor
	node.CurrentVersionString = &versionString
	node.LastVersionSnapshotAt = &snapshotAt

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.validateParent(txCtx, req.ParentID, scope, node.ID); err != nil {
			return err
		}
		order, err := s.nextSiblingOrder(txCtx, scope, req.ParentID)
		if err != nil {
			return err
		}
		node.Order = order
		return s.nodeRepo.Insert(txCtx, node)
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, identity, models.ActivityCreated, node)
	return node, nil
}

// UpdateTitle renames a node.
func (s *nodeService) UpdateTitle(ctx context.Context, identity models.Identity, id, title string) error {
	if err := validation.Validate(title, validation.Required, validation.Length(1, config.MaxTitleLength)); err != nil {
		return fmt.Errorf("%w: invalid title: %v", domain.ErrValidation, err)
	}
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}
	return s.nodeRepo.UpdateMeta(ctx, node.ID, repositories.MetaPatch{Title: &title}, s.audit(identity))
}

// UpdateIcon changes a node's icon. An empty icon clears it.
func (s *nodeService) UpdateIcon(ctx context.Context, identity models.Identity, id, icon string) error {
	if err := validation.Validate(icon, validation.Length(0, config.MaxIconLength)); err != nil {
		return fmt.Errorf("%w: invalid icon: %v", domain.ErrValidation, err)
	}
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}
	return s.nodeRepo.UpdateMeta(ctx, node.ID, repositories.MetaPatch{Icon: &icon}, s.audit(identity))
}

// UpdateDescription changes a node's description. An empty description
// clears it.
func (s *nodeService) UpdateDescription(ctx context.Context, identity models.Identity, id, description string) error {
	if err := validation.Validate(description, validation.Length(0, config.MaxDescriptionLength)); err != nil {
		return fmt.Errorf("%w: invalid description: %v", domain.ErrValidation, err)
	}
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}
	return s.nodeRepo.UpdateMeta(ctx, node.ID, repositories.MetaPatch{Description: &description}, s.audit(identity))
}

// UpdateStatus moves a doc through its review workflow.
func (s *nodeService) UpdateStatus(ctx context.Context, identity models.Identity, id string, status models.DocStatus) error {
	switch status {
	case models.DocStatusDraft, models.DocStatusInReview, models.DocStatusFinal:
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}
	if !node.IsDoc() {
		return fmt.Errorf("%w: status applies to documents only", domain.ErrValidation)
	}
	return s.nodeRepo.UpdateMeta(ctx, node.ID, repositories.MetaPatch{Status: &status}, s.audit(identity))
}

// UpdateTags replaces a node's tag set. Tag usage counters are adjusted after
// the node write, best-effort: a failed counter update is logged and ignored.
func (s *nodeService) UpdateTags(ctx context.Context, identity models.Identity, id string, tagIDs []string) error {
	if len(tagIDs) > config.MaxTagsPerNode {
		return fmt.Errorf("%w: at most %d tags per node", domain.ErrValidation, config.MaxTagsPerNode)
	}
	if tagIDs == nil {
		tagIDs = []string{}
	}

	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}

	if err := s.nodeRepo.UpdateMeta(ctx, node.ID, repositories.MetaPatch{TagIDs: tagIDs}, s.audit(identity)); err != nil {
		return err
	}

	for tagID, delta := range tagDeltas(node.TagIDs, tagIDs) {
		if err := s.tagRepo.AdjustUsage(ctx, tagID, delta); err != nil {
			s.logger.Warn("failed to adjust tag usage count",
				"tag_id", tagID,
				"delta", delta,
				"error", err,
			)
		}
	}
	return nil
}

// UpdateContent writes doc content. The first save initializes the version
// cursor at v1.0; later saves outside the batch window freeze the prior
// content as a DocumentVersion before applying the new content.
func (s *nodeService) UpdateContent(ctx context.Context, identity models.Identity, id string, content json.RawMessage) error {
	if len(content) == 0 {
		return fmt.Errorf("%w: content is required", domain.ErrValidation)
	}
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}
	if !node.IsDoc() {
		return fmt.Errorf("%w: folders have no content", domain.ErrValidation)
	}

	now := s.now().UTC()
	audit := repositories.Audit{At: now, By: identity.UserID, ByName: identity.Name}

	switch decideSnapshot(node, now, s.batchWindow) {
	case actionInit:
		return s.nodeRepo.InitVersionCursor(ctx, node.ID, content, 1, 0, models.VersionString(1, 0), now, audit)

	case actionApply:
		return s.nodeRepo.UpdateContent(ctx, node.ID, content, audit)

	case actionSnapshot:
		return s.snapshotAndApply(ctx, node, content, now, audit)
	}
	return nil
}

// snapshotAndApply freezes the node's current content under its current
// version cursor, then applies the new content and advances the cursor, all
// in one transaction. The cursor advance is conditional on the snapshot
// timestamp observed at load time; if a concurrent writer advanced it first,
// this write joins that writer's batch window instead of snapshotting again.
func (s *nodeService) snapshotAndApply(ctx context.Context, node *models.Node, content json.RawMessage, now time.Time, audit repositories.Audit) error {
	major := *node.CurrentMajorVersion
	minor := *node.CurrentMinorVersion
	nextMinor := minor + 1

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		advanced, err := s.nodeRepo.AdvanceVersionCursor(
			txCtx,
			node.ID,
			content,
			*node.LastVersionSnapshotAt,
			nextMinor,
			models.VersionString(major, nextMinor),
			now,
			audit,
		)
		if err != nil {
			return err
		}
		if !advanced {
			s.logger.Debug("version cursor advanced concurrently, joining open batch window",
				"node_id", node.ID,
			)
			return s.nodeRepo.UpdateContent(txCtx, node.ID, content, audit)
		}

		version := &models.DocumentVersion{
			ID:            uuid.NewString(),
			DocID:         node.ID,
			MajorVersion:  major,
			MinorVersion:  minor,
			VersionString: models.VersionString(major, minor),
			Title:         node.Title,
			Content:       node.Content,
			CreatedAt:     now,
			CreatedBy:     audit.By,
			CreatedByName: audit.ByName,
		}
		return s.versionRepo.Insert(txCtx, version)
	})
}

// Move reparents a node, appending it after the new parent's children.
func (s *nodeService) Move(ctx context.Context, identity models.Identity, id string, newParentID *string) error {
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}

	scope := node.Scope()
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.validateParent(txCtx, newParentID, scope, node.ID); err != nil {
			return err
		}
		order, err := s.nextSiblingOrder(txCtx, scope, newParentID)
		if err != nil {
			return err
		}
		return s.nodeRepo.UpdateParentOrder(txCtx, node.ID, newParentID, order, s.audit(identity))
	})
}

// Reorder reparents and/or repositions a node at an explicit index,
// renumbering the destination bucket to a contiguous 0-based sequence.
func (s *nodeService) Reorder(ctx context.Context, identity models.Identity, id string, newParentID *string, newOrder int) error {
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}

	scope := node.Scope()
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.validateParent(txCtx, newParentID, scope, node.ID); err != nil {
			return err
		}

		siblings, err := s.nodeRepo.ListChildren(txCtx, scope, newParentID)
		if err != nil {
			return err
		}
		siblings = excludeNode(siblings, node.ID)

		patches, target := planReorder(siblings, newOrder)
		for _, p := range patches {
			if err := s.nodeRepo.UpdateOrder(txCtx, p.ID, p.Order); err != nil {
				return err
			}
		}
		return s.nodeRepo.UpdateParentOrder(txCtx, node.ID, newParentID, target, s.audit(identity))
	})
}

// Remove soft-deletes a node and its direct children in one transaction.
// There is no undelete.
func (s *nodeService) Remove(ctx context.Context, identity models.Identity, id string) error {
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		children, err := s.nodeRepo.ListChildren(txCtx, node.Scope(), &node.ID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(children)+1)
		ids = append(ids, node.ID)
		for _, child := range children {
			ids = append(ids, child.ID)
		}
		return s.nodeRepo.MarkDeleted(txCtx, ids, s.now().UTC(), s.audit(identity))
	})
	if err != nil {
		return err
	}

	s.recordActivity(ctx, identity, models.ActivityDeleted, node)
	return nil
}

// ToggleSharing flips a node between its owner's personal scope and an
// organization scope. The whole subtree moves with it so that every child
// stays in its parent's scope. A nested node leaves its old parent behind and
// becomes a root of the destination pool.
func (s *nodeService) ToggleSharing(ctx context.Context, identity models.Identity, id string, orgID string) error {
	node, err := s.writableNode(ctx, identity, id)
	if err != nil {
		return err
	}

	var newOwnerID, newOrgID *string
	var newScope models.Scope
	if node.Scope().IsOrg() {
		newOwnerID = &identity.UserID
		newScope = models.PersonalScope(identity.UserID)
	} else {
		if orgID == "" {
			return fmt.Errorf("%w: organization id required to share a personal node", domain.ErrInvalidState)
		}
		newOrgID = &orgID
		newScope = models.OrgScope(orgID)
	}

	audit := s.audit(identity)
	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		arena, err := s.nodeRepo.ListByScope(txCtx, node.Scope())
		if err != nil {
			return err
		}
		adj := buildAdjacency(arena)

		if err := s.nodeRepo.SetScope(txCtx, node.ID, newOwnerID, newOrgID, audit); err != nil {
			return err
		}
		for _, desc := range adj.collectDescendants(node.ID) {
			if err := s.nodeRepo.SetScope(txCtx, desc.ID, newOwnerID, newOrgID, audit); err != nil {
				return err
			}
		}
		if node.ParentID == nil {
			return nil
		}
		order, err := s.nextSiblingOrder(txCtx, newScope, nil)
		if err != nil {
			return err
		}
		return s.nodeRepo.UpdateParentOrder(txCtx, node.ID, nil, order, audit)
	})
}

// ListVersions returns a doc's historical snapshots newest-first.
func (s *nodeService) ListVersions(ctx context.Context, identity models.Identity, docID string) ([]models.DocumentVersion, error) {
	node, err := s.visibleNode(ctx, identity, docID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, fmt.Errorf("%w: node %s", domain.ErrNotFound, docID)
	}
	if !node.IsDoc() {
		return nil, fmt.Errorf("%w: folders have no versions", domain.ErrValidation)
	}
	return s.versionRepo.ListByDoc(ctx, node.ID)
}

// visibleNode loads a node and applies the visibility rule: missing, deleted,
// and unauthorized all collapse to nil so callers cannot probe for existence.
func (s *nodeService) visibleNode(ctx context.Context, identity models.Identity, id string) (*models.Node, error) {
	if identity.IsAnonymous() {
		return nil, nil
	}
	node, err := s.nodeRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !canAccess(identity, node) {
		return nil, nil
	}
	return node, nil
}

// writableNode loads a node for mutation. Unlike visibleNode, mutations do
// report not-found and forbidden as errors.
func (s *nodeService) writableNode(ctx context.Context, identity models.Identity, id string) (*models.Node, error) {
	if identity.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthorized)
	}
	node, err := s.nodeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireWrite(identity, node); err != nil {
		return nil, err
	}
	return node, nil
}

// validateParent checks that a prospective parent exists, is a non-deleted
// folder in the same scope, and is not the node itself or one of its
// descendants. It must run inside the mutation's transaction.
func (s *nodeService) validateParent(ctx context.Context, parentID *string, scope models.Scope, nodeID string) error {
	if parentID == nil {
		return nil
	}
	if *parentID == nodeID {
		return fmt.Errorf("%w: node cannot be its own parent", domain.ErrValidation)
	}

	parent, err := s.nodeRepo.Get(ctx, *parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: parent %s", domain.ErrNotFound, *parentID)
		}
		return err
	}
	if !parent.IsFolder() {
		return fmt.Errorf("%w: parent must be a folder", domain.ErrValidation)
	}
	if parent.Scope() != scope {
		return fmt.Errorf("%w: parent is in a different scope", domain.ErrValidation)
	}

	// Walk the ancestor chain of the prospective parent. Hitting the node
	// being moved means the move would close a cycle.
	current := parent
	for current.ParentID != nil {
		if *current.ParentID == nodeID {
			return fmt.Errorf("%w: cannot move a node under its own descendant", domain.ErrValidation)
		}
		current, err = s.nodeRepo.Get(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
	}
	return nil
}

// nextSiblingOrder places a new or moved node after all current siblings.
// Reading the single max order beats scanning the full sibling set.
func (s *nodeService) nextSiblingOrder(ctx context.Context, scope models.Scope, parentID *string) (int, error) {
	max, ok, err := s.nodeRepo.MaxSiblingOrder(ctx, scope, parentID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return max + 1, nil
}

// newNode builds a node with identity stamps and scope applied. Sibling order
// is assigned later, inside the insert transaction.
func (s *nodeService) newNode(identity models.Identity, nodeType models.NodeType, parentID *string, title string, scope models.Scope) *models.Node {
	now := s.now().UTC()
	node := &models.Node{
		ID:            uuid.NewString(),
		Type:          nodeType,
		ParentID:      parentID,
		Title:         title,
		CreatedAt:     now,
		CreatedBy:     identity.UserID,
		UpdatedAt:     now,
		UpdatedBy:     identity.UserID,
		UpdatedByName: identity.Name,
	}
	if scope.IsOrg() {
		orgID := scope.OrgID
		node.OrgID = &orgID
	} else {
		ownerID := scope.OwnerID
		node.OwnerID = &ownerID
	}
	if nodeType == models.NodeTypeDoc {
		status := models.DocStatusDraft
		node.Status = &status
	}
	return node
}

// audit stamps the acting identity and current time on a write.
func (s *nodeService) audit(identity models.Identity) repositories.Audit {
	return repositories.Audit{At: s.now().UTC(), By: identity.UserID, ByName: identity.Name}
}

// recordActivity appends an audit trail entry, fire-and-forget.
func (s *nodeService) recordActivity(ctx context.Context, identity models.Identity, action string, node *models.Node) {
	entry := &models.ActivityEntry{
		ID:        uuid.NewString(),
		ActorID:   identity.UserID,
		ActorName: identity.Name,
		Action:    action,
		NodeID:    node.ID,
		NodeType:  node.Type,
		NodeTitle: node.Title,
		CreatedAt: s.now().UTC(),
	}
	if err := s.activityRepo.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity entry",
			"action", action,
			"node_id", node.ID,
			"error", err,
		)
	}
}

// validateCreateNode validates a folder/doc creation request.
func validateCreateNode(req *services.CreateNodeRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Type, validation.Required, validation.In(models.NodeTypeFolder, models.NodeTypeDoc)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// validateCreateDocument validates a doc-with-content creation request.
func validateCreateDocument(req *services.CreateDocumentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Content, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// excludeNode filters one node out of a sibling set.
func excludeNode(siblings []models.Node, id string) []models.Node {
	out := siblings[:0]
	for _, s := range siblings {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// tagDeltas diffs two tag sets into usage-count adjustments.
func tagDeltas(before, after []string) map[string]int {
	deltas := make(map[string]int)
	for _, id := range after {
		deltas[id]++
	}
	for _, id := range before {
		deltas[id]--
	}
	for id, d := range deltas {
		if d == 0 {
			delete(deltas, id)
		}
	}
	return deltas
}
