package nodetree

import (
	"time"

	"arbor/internal/domain/models"
)

// snapshotAction is the outcome of the batching policy for one content write.
type snapshotAction int

const (
	// actionInit: first save of the doc - initialize the version cursor to
	// v1.0, no snapshot is frozen.
	actionInit snapshotAction = iota

	// actionSnapshot: the batch window elapsed - freeze the prior content as
	// a DocumentVersion and advance the cursor.
	actionSnapshot

	// actionApply: inside the batch window - apply the content without
	// touching the cursor, collapsing the burst into one checkpoint.
	actionApply
)

// decideSnapshot applies the time-window batching policy to a content write.
//
// Editors autosave every few seconds while typing; snapshotting each tick
// would be version spam. Grouping a burst into the version that was current
// when the window opened always preserves the content state at the start of
// each burst.
func decideSnapshot(node *models.Node, now time.Time, window time.Duration) snapshotAction {
	if !node.HasContent() || node.LastVersionSnapshotAt == nil {
		return actionInit
	}
	if now.Sub(*node.LastVersionSnapshotAt) > window {
		return actionSnapshot
	}
	return actionApply
}
