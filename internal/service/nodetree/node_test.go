package nodetree

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

var (
	alice = models.Identity{UserID: "user-alice", Name: "Alice"}
	bob   = models.Identity{UserID: "user-bob", Name: "Bob"}
)

// testClock is a controllable time source for batching-window tests.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(store *fakeStore) (*nodeService, *testClock) {
	clock := &testClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	svc := &nodeService{
		nodeRepo:     &fakeNodeRepo{store: store},
		versionRepo:  &fakeVersionRepo{store: store},
		tagRepo:      &fakeTagRepo{store: store},
		activityRepo: &fakeActivityRepo{store: store},
		txManager:    fakeTxManager{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		batchWindow:  config.VersionBatchWindow,
		now:          clock.now,
	}
	return svc, clock
}

func mustCreate(t *testing.T, svc *nodeService, identity models.Identity, req *services.CreateNodeRequest) *models.Node {
	t.Helper()
	node, err := svc.Create(context.Background(), identity, req)
	if err != nil {
		t.Fatalf("Create(%q): %v", req.Title, err)
	}
	return node
}

func strptr(s string) *string { return &s }

func TestCreateAssignsNextOrder(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		node := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: title})
		if node.Order != i {
			t.Errorf("node %q: order = %d, want %d", title, node.Order, i)
		}
	}

	roots, err := svc.GetChildren(ctx, alice, "", nil)
	if err != nil {
		t.Fatalf("GetChildren: %v", err)
	}
	if len(roots) != 3 {
		t.Fatalf("got %d roots, want 3", len(roots))
	}
}

func TestCreateRejectsDocParent(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "leaf"})

	_, err := svc.Create(ctx, alice, &services.CreateNodeRequest{
		Type:     models.NodeTypeFolder,
		ParentID: &doc.ID,
		Title:    "child of a doc",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestReorderContiguity(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	var nodes []*models.Node
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		nodes = append(nodes, mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: title}))
	}

	tests := []struct {
		name      string
		moveID    string
		order     int
		wantOrder int
	}{
		{name: "into the middle", moveID: nodes[4].ID, order: 1, wantOrder: 1},
		{name: "to the front", moveID: nodes[3].ID, order: 0, wantOrder: 0},
		{name: "past the end clamps", moveID: nodes[0].ID, order: 99, wantOrder: 4},
		{name: "negative clamps to zero", moveID: nodes[2].ID, order: -5, wantOrder: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Reorder(ctx, alice, tt.moveID, nil, tt.order); err != nil {
				t.Fatalf("Reorder: %v", err)
			}

			siblings, err := svc.GetChildren(ctx, alice, "", nil)
			if err != nil {
				t.Fatalf("GetChildren: %v", err)
			}
			seen := make(map[int]string)
			for _, s := range siblings {
				if prev, dup := seen[s.Order]; dup {
					t.Errorf("order %d assigned to both %s and %s", s.Order, prev, s.ID)
				}
				seen[s.Order] = s.ID
				if s.Order < 0 || s.Order >= len(siblings) {
					t.Errorf("order %d outside [0, %d)", s.Order, len(siblings))
				}
				if s.ID == tt.moveID && s.Order != tt.wantOrder {
					t.Errorf("moved node order = %d, want %d", s.Order, tt.wantOrder)
				}
			}
		})
	}
}

func TestMoveAppendsAtEnd(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	dst := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "dst"})
	mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, ParentID: &dst.ID, Title: "one"})
	mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, ParentID: &dst.ID, Title: "two"})
	mover := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "mover"})

	if err := svc.Move(ctx, alice, mover.ID, &dst.ID); err != nil {
		t.Fatalf("Move: %v", err)
	}

	moved, err := svc.Get(ctx, alice, mover.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if moved.ParentID == nil || *moved.ParentID != dst.ID {
		t.Fatalf("parent = %v, want %s", moved.ParentID, dst.ID)
	}
	if moved.Order != 2 {
		t.Errorf("order = %d, want 2 (appended after existing children)", moved.Order)
	}
}

func TestMoveRejectsCycle(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	top := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "top"})
	mid := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, ParentID: &top.ID, Title: "mid"})
	leaf := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, ParentID: &mid.ID, Title: "leaf"})

	if err := svc.Move(ctx, alice, top.ID, &leaf.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move under own descendant: err = %v, want ErrValidation", err)
	}
	if err := svc.Move(ctx, alice, top.ID, &top.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("move under itself: err = %v, want ErrValidation", err)
	}
}

func TestRemoveCascadesOneLevel(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	parent := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "parent"})
	childFolder := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, ParentID: &parent.ID, Title: "child folder"})
	childDoc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, ParentID: &parent.ID, Title: "child doc"})
	grandchild := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, ParentID: &childFolder.ID, Title: "grandchild"})
	outsider := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "outsider"})

	if err := svc.Remove(ctx, alice, parent.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	for _, id := range []string{parent.ID, childFolder.ID, childDoc.ID} {
		if node, _ := svc.Get(ctx, alice, id); node != nil {
			t.Errorf("node %s still visible after cascade delete", id)
		}
	}
	// Cascade is one level deep; grandchildren survive (orphaned).
	if node, _ := svc.Get(ctx, alice, grandchild.ID); node == nil {
		t.Errorf("grandchild was deleted, cascade should stop at direct children")
	}
	if node, _ := svc.Get(ctx, alice, outsider.ID); node == nil {
		t.Errorf("unrelated node was deleted")
	}
}

func TestUpdateContentFirstSaveInitializesCursor(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestEngine(store)
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "fresh"})

	if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(`{"text":"hello"}`)); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	saved, err := svc.Get(ctx, alice, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if saved.CurrentVersionString == nil || *saved.CurrentVersionString != "v1.0" {
		t.Errorf("version string = %v, want v1.0", saved.CurrentVersionString)
	}
	if saved.LastVersionSnapshotAt == nil {
		t.Errorf("snapshot timestamp not initialized")
	}
	if len(store.versions) != 0 {
		t.Errorf("first save froze %d versions, want 0", len(store.versions))
	}
}

func TestUpdateContentBurstCollapsesToOneVersion(t *testing.T) {
	store := newFakeStore()
	svc, clock := newTestEngine(store)
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "essay"})
	original := json.RawMessage(`{"text":"original"}`)
	if err := svc.UpdateContent(ctx, alice, doc.ID, original); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// A burst well outside the window: the first write freezes the prior
	// content, the rest land inside the new window.
	clock.advance(config.VersionBatchWindow + time.Second)
	for i, content := range []string{`{"text":"draft 1"}`, `{"text":"draft 2"}`, `{"text":"draft 3"}`} {
		if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(content)); err != nil {
			t.Fatalf("burst save %d: %v", i, err)
		}
		clock.advance(5 * time.Second)
	}

	if len(store.versions) != 1 {
		t.Fatalf("burst froze %d versions, want 1", len(store.versions))
	}
	frozen := store.versions[0]
	if string(frozen.Content) != string(original) {
		t.Errorf("frozen content = %s, want the content before the burst", frozen.Content)
	}
	if frozen.VersionString != "v1.0" {
		t.Errorf("frozen version = %s, want v1.0", frozen.VersionString)
	}

	saved, _ := svc.Get(ctx, alice, doc.ID)
	if *saved.CurrentVersionString != "v1.1" {
		t.Errorf("cursor = %s, want v1.1", *saved.CurrentVersionString)
	}
	if string(saved.Content) != `{"text":"draft 3"}` {
		t.Errorf("live content = %s, want the last draft", saved.Content)
	}
}

func TestUpdateContentSnapshotPerWindow(t *testing.T) {
	store := newFakeStore()
	svc, clock := newTestEngine(store)
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "log"})
	if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(`"day 0"`)); err != nil {
		t.Fatalf("first save: %v", err)
	}

	for i := 1; i <= 3; i++ {
		clock.advance(config.VersionBatchWindow + time.Second)
		if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(`"day `+string(rune('0'+i))+`"`)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if len(store.versions) != 3 {
		t.Fatalf("got %d versions, want 3 (one per elapsed window)", len(store.versions))
	}
	saved, _ := svc.Get(ctx, alice, doc.ID)
	if *saved.CurrentVersionString != "v1.3" {
		t.Errorf("cursor = %s, want v1.3", *saved.CurrentVersionString)
	}
}

// racingNodeRepo moves the version cursor out from under every conditional
// advance, standing in for a concurrent writer that snapshots first.
type racingNodeRepo struct{ *fakeNodeRepo }

func (r *racingNodeRepo) AdvanceVersionCursor(ctx context.Context, id string, content json.RawMessage, expectedSnapshotAt time.Time, minor int, versionString string, snapshotAt time.Time, audit repositories.Audit) (bool, error) {
	if n, ok := r.store.nodes[id]; ok && n.LastVersionSnapshotAt != nil {
		moved := n.LastVersionSnapshotAt.Add(time.Second)
		n.LastVersionSnapshotAt = &moved
	}
	return r.fakeNodeRepo.AdvanceVersionCursor(ctx, id, content, expectedSnapshotAt, minor, versionString, snapshotAt, audit)
}

func TestUpdateContentLostCursorRaceAppliesWithoutSnapshot(t *testing.T) {
	store := newFakeStore()
	svc, clock := newTestEngine(store)
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "contended"})
	if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(`{"text":"original"}`)); err != nil {
		t.Fatalf("first save: %v", err)
	}

	svc.nodeRepo = &racingNodeRepo{fakeNodeRepo: &fakeNodeRepo{store: store}}
	clock.advance(config.VersionBatchWindow + time.Second)

	if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(`{"text":"latecomer"}`)); err != nil {
		t.Fatalf("contended save: %v", err)
	}

	// Losing the cursor race joins the winner's batch window: the content
	// lands, but nothing is frozen and the cursor is left alone.
	if len(store.versions) != 0 {
		t.Fatalf("lost race froze %d versions, want 0", len(store.versions))
	}
	saved, _ := svc.Get(ctx, alice, doc.ID)
	if string(saved.Content) != `{"text":"latecomer"}` {
		t.Errorf("content = %s, want the late write applied", saved.Content)
	}
	if *saved.CurrentVersionString != "v1.0" {
		t.Errorf("cursor = %s, want v1.0 (unchanged by the loser)", *saved.CurrentVersionString)
	}
}

func TestListVersionsNewestFirst(t *testing.T) {
	store := newFakeStore()
	svc, clock := newTestEngine(store)
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "doc"})
	for i := 0; i <= 2; i++ {
		if err := svc.UpdateContent(ctx, alice, doc.ID, json.RawMessage(`"rev"`)); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		clock.advance(config.VersionBatchWindow + time.Second)
	}

	versions, err := svc.ListVersions(ctx, alice, doc.ID)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(versions))
	}
	if !versions[0].CreatedAt.After(versions[1].CreatedAt) {
		t.Errorf("versions not newest-first")
	}
}

func TestToggleSharingScopeExclusivity(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	folder := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "notes"})
	child := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, ParentID: &folder.ID, Title: "entry"})

	if err := svc.ToggleSharing(ctx, alice, folder.ID, "org-1"); err != nil {
		t.Fatalf("ToggleSharing to org: %v", err)
	}

	aliceOrg := models.Identity{UserID: alice.UserID, Name: alice.Name, OrgID: "org-1"}
	for _, id := range []string{folder.ID, child.ID} {
		node, err := svc.Get(ctx, aliceOrg, id)
		if err != nil || node == nil {
			t.Fatalf("Get(%s) after sharing: node=%v err=%v", id, node, err)
		}
		if node.OwnerID != nil || node.OrgID == nil || *node.OrgID != "org-1" {
			t.Errorf("node %s: owner=%v org=%v, want exclusively org-1", id, node.OwnerID, node.OrgID)
		}
	}

	if err := svc.ToggleSharing(ctx, aliceOrg, folder.ID, ""); err != nil {
		t.Fatalf("ToggleSharing back to personal: %v", err)
	}
	node, _ := svc.Get(ctx, alice, folder.ID)
	if node == nil || node.OwnerID == nil || *node.OwnerID != alice.UserID || node.OrgID != nil {
		t.Errorf("node after unsharing: %+v, want personal scope of %s", node, alice.UserID)
	}
}

func TestToggleSharingNestedNodeBecomesRoot(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	workspace := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "workspace"})
	nested := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, ParentID: &workspace.ID, Title: "team docs"})
	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, ParentID: &nested.ID, Title: "plan"})
	mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "org home", OrgID: "org-1"})

	if err := svc.ToggleSharing(ctx, alice, nested.ID, "org-1"); err != nil {
		t.Fatalf("ToggleSharing: %v", err)
	}

	// The old parent stays behind in the personal pool, so the shared node
	// must re-root rather than keep an edge into the other scope.
	aliceOrg := models.Identity{UserID: alice.UserID, Name: alice.Name, OrgID: "org-1"}
	moved, err := svc.Get(ctx, aliceOrg, nested.ID)
	if err != nil || moved == nil {
		t.Fatalf("Get after sharing: node=%v err=%v", moved, err)
	}
	if moved.ParentID != nil {
		t.Fatalf("shared node kept parent %s from the personal pool", *moved.ParentID)
	}
	if moved.Order != 1 {
		t.Errorf("order = %d, want 1 (appended after existing org roots)", moved.Order)
	}

	kids, err := svc.GetChildren(ctx, aliceOrg, "org-1", &nested.ID)
	if err != nil || len(kids) != 1 || kids[0].ID != doc.ID {
		t.Errorf("org children = %v err=%v, want just the doc", kids, err)
	}
	personalKids, err := svc.GetChildren(ctx, alice, "", &workspace.ID)
	if err != nil || len(personalKids) != 0 {
		t.Errorf("old parent still lists %d children, want 0", len(personalKids))
	}
}

func TestToggleSharingRequiresOrg(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())

	folder := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "private"})

	err := svc.ToggleSharing(context.Background(), alice, folder.ID, "")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestVisibilityAcrossUsers(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	private := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "secret"})
	shared := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "shared", OrgID: "org-1"})

	if node, err := svc.Get(ctx, bob, private.ID); err != nil || node != nil {
		t.Errorf("other user's private node: node=%v err=%v, want nil,nil", node, err)
	}
	if node, err := svc.Get(ctx, bob, shared.ID); err != nil || node == nil {
		t.Errorf("org node: node=%v err=%v, want visible", node, err)
	}
	if err := svc.UpdateTitle(ctx, bob, private.ID, "mine now"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("mutating other user's node: err = %v, want ErrForbidden", err)
	}
}

func TestAnonymousCallers(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "doc"})

	nodes, err := svc.List(ctx, models.Anonymous, "")
	if err != nil || len(nodes) != 0 {
		t.Errorf("anonymous List: nodes=%v err=%v, want empty", nodes, err)
	}
	if node, err := svc.Get(ctx, models.Anonymous, doc.ID); err != nil || node != nil {
		t.Errorf("anonymous Get: node=%v err=%v, want nil,nil", node, err)
	}
	if _, err := svc.Create(ctx, models.Anonymous, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "x"}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("anonymous Create: err = %v, want ErrUnauthorized", err)
	}
	if err := svc.UpdateTitle(ctx, models.Anonymous, doc.ID, "x"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("anonymous UpdateTitle: err = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateTagsAdjustsUsage(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestEngine(store)
	ctx := context.Background()

	store.tags["tag-a"] = &models.Tag{ID: "tag-a", Name: "alpha", UsageCount: 1}
	store.tags["tag-b"] = &models.Tag{ID: "tag-b", Name: "beta"}

	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "tagged"})
	if err := svc.UpdateTags(ctx, alice, doc.ID, []string{"tag-a"}); err != nil {
		t.Fatalf("UpdateTags: %v", err)
	}
	if err := svc.UpdateTags(ctx, alice, doc.ID, []string{"tag-b"}); err != nil {
		t.Fatalf("UpdateTags swap: %v", err)
	}

	if got := store.tags["tag-a"].UsageCount; got != 1 {
		t.Errorf("tag-a usage = %d, want 1 (back to initial)", got)
	}
	if got := store.tags["tag-b"].UsageCount; got != 1 {
		t.Errorf("tag-b usage = %d, want 1", got)
	}

	saved, _ := svc.Get(ctx, alice, doc.ID)
	if len(saved.TagIDs) != 1 || saved.TagIDs[0] != "tag-b" {
		t.Errorf("tag set = %v, want [tag-b]", saved.TagIDs)
	}
}

func TestUpdateStatusDocsOnly(t *testing.T) {
	svc, _ := newTestEngine(newFakeStore())
	ctx := context.Background()

	folder := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeFolder, Title: "dir"})
	doc := mustCreate(t, svc, alice, &services.CreateNodeRequest{Type: models.NodeTypeDoc, Title: "doc"})

	if err := svc.UpdateStatus(ctx, alice, folder.ID, models.DocStatusFinal); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("status on folder: err = %v, want ErrValidation", err)
	}
	if err := svc.UpdateStatus(ctx, alice, doc.ID, "published"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}
	if err := svc.UpdateStatus(ctx, alice, doc.ID, models.DocStatusInReview); err != nil {
		t.Errorf("valid status: %v", err)
	}
}

func TestCreateWithContentInitializesVersioning(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestEngine(store)

	doc, err := svc.CreateWithContent(context.Background(), alice, &services.CreateDocumentRequest{
		Title:      "imported",
		Content:    json.RawMessage(`{"text":"imported body"}`),
		SourceFile: strptr("notes.md"),
	})
	if err != nil {
		t.Fatalf("CreateWithContent: %v", err)
	}
	if doc.CurrentVersionString == nil || *doc.CurrentVersionString != "v1.0" {
		t.Errorf("version string = %v, want v1.0", doc.CurrentVersionString)
	}
	if len(store.versions) != 0 {
		t.Errorf("initial content froze %d versions, want 0", len(store.versions))
	}
	if doc.Status == nil || *doc.Status != models.DocStatusDraft {
		t.Errorf("status = %v, want draft", doc.Status)
	}
}
