package nodetree

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// fakeStore is an in-memory stand-in for the postgres repositories. Each
// method mirrors the repository contract closely enough for service-level
// tests: soft-deleted nodes are invisible, reads return copies, and the
// cursor advance is a compare-and-swap.
type fakeStore struct {
	nodes    map[string]*models.Node
	versions []models.DocumentVersion
	tags     map[string]*models.Tag
	activity []models.ActivityEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes: make(map[string]*models.Node),
		tags:  make(map[string]*models.Tag),
	}
}

func (f *fakeStore) seed(node models.Node) {
	n := node
	f.nodes[n.ID] = &n
}

type fakeNodeRepo struct{ store *fakeStore }

func (r *fakeNodeRepo) Get(ctx context.Context, id string) (*models.Node, error) {
	n, ok := r.store.nodes[id]
	if !ok || n.IsDeleted {
		return nil, fmt.Errorf("%w: node %s", domain.ErrNotFound, id)
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNodeRepo) Insert(ctx context.Context, node *models.Node) error {
	if _, ok := r.store.nodes[node.ID]; ok {
		return fmt.Errorf("%w: node %s", domain.ErrConflict, node.ID)
	}
	cp := *node
	r.store.nodes[node.ID] = &cp
	return nil
}

func (r *fakeNodeRepo) live(id string) (*models.Node, error) {
	n, ok := r.store.nodes[id]
	if !ok || n.IsDeleted {
		return nil, fmt.Errorf("%w: node %s", domain.ErrNotFound, id)
	}
	return n, nil
}

func (r *fakeNodeRepo) UpdateMeta(ctx context.Context, id string, patch repositories.MetaPatch, audit repositories.Audit) error {
	n, err := r.live(id)
	if err != nil {
		return err
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Icon != nil {
		n.Icon = patch.Icon
	}
	if patch.Description != nil {
		n.Description = patch.Description
	}
	if patch.Status != nil {
		n.Status = patch.Status
	}
	if patch.TagIDs != nil {
		n.TagIDs = patch.TagIDs
	}
	stamp(n, audit)
	return nil
}

func (r *fakeNodeRepo) UpdateParentOrder(ctx context.Context, id string, parentID *string, order int, audit repositories.Audit) error {
	n, err := r.live(id)
	if err != nil {
		return err
	}
	n.ParentID = parentID
	n.Order = order
	stamp(n, audit)
	return nil
}

func (r *fakeNodeRepo) UpdateOrder(ctx context.Context, id string, order int) error {
	n, err := r.live(id)
	if err != nil {
		return err
	}
	n.Order = order
	return nil
}

func (r *fakeNodeRepo) UpdateContent(ctx context.Context, id string, content json.RawMessage, audit repositories.Audit) error {
	n, err := r.live(id)
	if err != nil {
		return err
	}
	n.Content = content
	stamp(n, audit)
	return nil
}

func (r *fakeNodeRepo) InitVersionCursor(ctx context.Context, id string, content json.RawMessage, major, minor int, versionString string, snapshotAt time.Time, audit repositories.Audit) error {
	n, err := r.live(id)
	if err != nil {
		return err
	}
	n.Content = content
	n.CurrentMajorVersion = &major
	n.CurrentMinorVersion = &minor
	n.CurrentVersionString = &versionString
	at := snapshotAt
	n.LastVersionSnapshotAt = &at
	stamp(n, audit)
	return nil
}

func (r *fakeNodeRepo) AdvanceVersionCursor(ctx context.Context, id string, content json.RawMessage, expectedSnapshotAt time.Time, minor int, versionString string, snapshotAt time.Time, audit repositories.Audit) (bool, error) {
	n, err := r.live(id)
	if err != nil {
		return false, err
	}
	if n.LastVersionSnapshotAt == nil || !n.LastVersionSnapshotAt.Equal(expectedSnapshotAt) {
		return false, nil
	}
	n.Content = content
	n.CurrentMinorVersion = &minor
	n.CurrentVersionString = &versionString
	at := snapshotAt
	n.LastVersionSnapshotAt = &at
	stamp(n, audit)
	return true, nil
}

func (r *fakeNodeRepo) SetScope(ctx context.Context, id string, ownerID, orgID *string, audit repositories.Audit) error {
	n, err := r.live(id)
	if err != nil {
		return err
	}
	n.OwnerID = ownerID
	n.OrgID = orgID
	stamp(n, audit)
	return nil
}

func (r *fakeNodeRepo) MarkDeleted(ctx context.Context, ids []string, deletedAt time.Time, audit repositories.Audit) error {
	for _, id := range ids {
		n, err := r.live(id)
		if err != nil {
			return err
		}
		n.IsDeleted = true
		at := deletedAt
		n.DeletedAt = &at
		stamp(n, audit)
	}
	return nil
}

func (r *fakeNodeRepo) ListByScope(ctx context.Context, scope models.Scope) ([]models.Node, error) {
	out := []models.Node{}
	for _, n := range r.store.nodes {
		if !n.IsDeleted && n.Scope() == scope {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNodeRepo) ListChildren(ctx context.Context, scope models.Scope, parentID *string) ([]models.Node, error) {
	out := []models.Node{}
	for _, n := range r.store.nodes {
		if n.IsDeleted || n.Scope() != scope {
			continue
		}
		switch {
		case parentID == nil && n.ParentID == nil:
			out = append(out, *n)
		case parentID != nil && n.ParentID != nil && *n.ParentID == *parentID:
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeNodeRepo) MaxSiblingOrder(ctx context.Context, scope models.Scope, parentID *string) (int, bool, error) {
	siblings, err := r.ListChildren(ctx, scope, parentID)
	if err != nil || len(siblings) == 0 {
		return 0, false, err
	}
	// ListChildren sorts ascending by order.
	return siblings[len(siblings)-1].Order, true, nil
}

func (r *fakeNodeRepo) SearchCandidates(ctx context.Context, userID, orgID string) ([]models.Node, error) {
	out := []models.Node{}
	for _, n := range r.store.nodes {
		if n.IsDeleted || !n.IsDoc() {
			continue
		}
		personal := n.OwnerID != nil && *n.OwnerID == userID && n.OrgID == nil
		shared := orgID != "" && n.OrgID != nil && *n.OrgID == orgID
		if personal || shared {
			out = append(out, *n)
		}
	}
	return out, nil
}

func stamp(n *models.Node, audit repositories.Audit) {
	n.UpdatedAt = audit.At
	n.UpdatedBy = audit.By
	n.UpdatedByName = audit.ByName
}

type fakeVersionRepo struct{ store *fakeStore }

func (r *fakeVersionRepo) Insert(ctx context.Context, version *models.DocumentVersion) error {
	r.store.versions = append(r.store.versions, *version)
	return nil
}

func (r *fakeVersionRepo) ListByDoc(ctx context.Context, docID string) ([]models.DocumentVersion, error) {
	out := []models.DocumentVersion{}
	for _, v := range r.store.versions {
		if v.DocID == docID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeTagRepo struct{ store *fakeStore }

func (r *fakeTagRepo) Get(ctx context.Context, id string) (*models.Tag, error) {
	t, ok := r.store.tags[id]
	if !ok {
		return nil, fmt.Errorf("%w: tag %s", domain.ErrNotFound, id)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	cp := *tag
	r.store.tags[tag.ID] = &cp
	return nil
}

func (r *fakeTagRepo) ListByScope(ctx context.Context, userID, orgID string) ([]models.Tag, error) {
	out := []models.Tag{}
	for _, t := range r.store.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTagRepo) AdjustUsage(ctx context.Context, id string, delta int) error {
	t, ok := r.store.tags[id]
	if !ok {
		return fmt.Errorf("%w: tag %s", domain.ErrNotFound, id)
	}
	t.UsageCount += delta
	if t.UsageCount < 0 {
		t.UsageCount = 0
	}
	return nil
}

type fakeActivityRepo struct{ store *fakeStore }

func (r *fakeActivityRepo) Record(ctx context.Context, entry *models.ActivityEntry) error {
	r.store.activity = append(r.store.activity, *entry)
	return nil
}

func (r *fakeActivityRepo) ListRecent(ctx context.Context, userID, orgID string, limit int) ([]models.ActivityEntry, error) {
	out := r.store.activity
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return append([]models.ActivityEntry{}, out...), nil
}

// fakeTxManager runs the function directly. The fake store has no real
// transactions; atomicity is not what these tests exercise.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
