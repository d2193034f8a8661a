package nodetree

import (
	"sort"
	"time"

	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
)

// adjacency is a parent-indexed view over an arena of scope nodes. Traversals
// run as explicit worklists over it, so traversal order is a deliberate
// contract and call-stack depth stays bounded regardless of tree shape.
type adjacency struct {
	byParent map[string][]*models.Node // key "" = scope roots
}

// buildAdjacency indexes an arena of non-deleted nodes by parent, children
// sorted by sibling order.
func buildAdjacency(nodes []models.Node) *adjacency {
	a := &adjacency{byParent: make(map[string][]*models.Node)}
	for i := range nodes {
		key := ""
		if nodes[i].ParentID != nil {
			key = *nodes[i].ParentID
		}
		a.byParent[key] = append(a.byParent[key], &nodes[i])
	}
	for _, children := range a.byParent {
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Order < children[j].Order
		})
	}
	return a
}

// childrenOf returns a node's direct children in sibling order.
func (a *adjacency) childrenOf(id string) []*models.Node {
	return a.byParent[id]
}

// collectDescendants gathers the full subtree below rootID, depth-first in
// sibling order, excluding the root itself.
func (a *adjacency) collectDescendants(rootID string) []*models.Node {
	var out []*models.Node
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := a.childrenOf(id)
		// Push in reverse so the leftmost sibling is visited first.
		for i := len(children) - 1; i >= 0; i-- {
			out = append(out, children[i])
			stack = append(stack, children[i].ID)
		}
	}
	return out
}

// folderStats aggregates a folder's live subtree. Doc and folder counts and
// the word estimate cover all descendants; "last updated" deliberately covers
// direct children only, matching what a folder listing shows.
func folderStats(a *adjacency, folderID string, extractor services.TextExtractor) *models.FolderStats {
	stats := &models.FolderStats{}

	for _, desc := range a.collectDescendants(folderID) {
		switch desc.Type {
		case models.NodeTypeFolder:
			stats.TotalFolders++
		case models.NodeTypeDoc:
			stats.TotalDocs++
			if desc.HasContent() {
				stats.EstimatedWords += extractor.CountWords(desc.Content)
			}
		}
	}

	var last time.Time
	for _, child := range a.childrenOf(folderID) {
		if child.UpdatedAt.After(last) {
			last = child.UpdatedAt
		}
	}
	if !last.IsZero() {
		stats.LastUpdatedAt = &last
	}

	return stats
}

// contributors folds a folder's descendant docs by last writer, ranked by
// most recent activity and capped at limit.
func contributors(a *adjacency, folderID string, limit int) []models.Contributor {
	byUser := make(map[string]*models.Contributor)
	for _, desc := range a.collectDescendants(folderID) {
		if desc.Type != models.NodeTypeDoc || desc.UpdatedBy == "" {
			continue
		}
		c, ok := byUser[desc.UpdatedBy]
		if !ok {
			c = &models.Contributor{UserID: desc.UpdatedBy, Name: desc.UpdatedByName}
			byUser[desc.UpdatedBy] = c
		}
		c.EditCount++
		if desc.UpdatedAt.After(c.LastActiveAt) {
			c.LastActiveAt = desc.UpdatedAt
			c.Name = desc.UpdatedByName
		}
	}

	out := make([]models.Contributor, 0, len(byUser))
	for _, c := range byUser {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActiveAt.After(out[j].LastActiveAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// descendants builds a nested table-of-contents snapshot down to maxDepth
// levels, breadth-first per level, siblings in sibling order. Direct children
// sit at depth 1.
func descendants(a *adjacency, folderID string, maxDepth int) []*models.DescendantNode {
	type frame struct {
		parentID string
		depth    int
		attach   *[]*models.DescendantNode
	}

	var roots []*models.DescendantNode
	queue := []frame{{parentID: folderID, depth: 1, attach: &roots}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if f.depth > maxDepth {
			continue
		}
		for _, child := range a.childrenOf(f.parentID) {
			entry := &models.DescendantNode{
				ID:        child.ID,
				Type:      child.Type,
				Title:     child.Title,
				Icon:      child.Icon,
				Order:     child.Order,
				Status:    child.Status,
				Depth:     f.depth,
				UpdatedAt: child.UpdatedAt,
			}
			*f.attach = append(*f.attach, entry)
			if child.IsFolder() {
				queue = append(queue, frame{parentID: child.ID, depth: f.depth + 1, attach: &entry.Children})
			}
		}
	}
	return roots
}
