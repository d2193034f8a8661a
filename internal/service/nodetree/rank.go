package nodetree

import (
	"sort"
	"strings"

	"arbor/internal/domain/models"
)

// rankByTitle orders title matches for the link/search UI. Empty queries fall
// back to recency. Otherwise: case-insensitive substring filter, prefix
// matches ahead of mere containment, recency as the tie-break within each
// group, capped at limit.
func rankByTitle(docs []models.Node, query string, limit int) []models.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))

	var matches []models.SearchResult
	for i := range docs {
		doc := &docs[i]
		title := strings.ToLower(doc.Title)
		if q != "" && !strings.Contains(title, q) {
			continue
		}
		matches = append(matches, models.SearchResult{
			ID:          doc.ID,
			Title:       doc.Title,
			Icon:        doc.Icon,
			ParentID:    doc.ParentID,
			Status:      doc.Status,
			UpdatedAt:   doc.UpdatedAt,
			PrefixMatch: q != "" && strings.HasPrefix(title, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].PrefixMatch != matches[j].PrefixMatch {
			return matches[i].PrefixMatch
		}
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []models.SearchResult{}
	}
	return matches
}
