package nodetree

import (
	"sort"

	"arbor/internal/domain/models"
)

// orderPatch assigns one sibling its renumbered slot.
type orderPatch struct {
	ID    string
	Order int
}

// planReorder renumbers a destination sibling bucket around a moved node.
//
// siblings is the bucket's non-deleted members excluding the mover. They are
// sorted by current order, then assigned consecutive integers 0..N, skipping
// the slot the mover will occupy. Only siblings whose order actually changes
// are returned as patches, which keeps write volume down. The requested index
// is clamped to the contiguous range, so asking for a slot beyond the bucket
// places the mover at the end rather than at a sparse high order.
func planReorder(siblings []models.Node, newOrder int) ([]orderPatch, int) {
	target := newOrder
	if target < 0 {
		target = 0
	}
	if target > len(siblings) {
		target = len(siblings)
	}

	sorted := make([]models.Node, len(siblings))
	copy(sorted, siblings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	var patches []orderPatch
	next := 0
	for i := range sorted {
		if next == target {
			next++ // leave room for the mover
		}
		if sorted[i].Order != next {
			patches = append(patches, orderPatch{ID: sorted[i].ID, Order: next})
		}
		next++
	}

	return patches, target
}
