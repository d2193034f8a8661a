package models

import "time"

// Activity actions recorded in the audit trail.
const (
	ActivityCreated = "created"
	ActivityDeleted = "deleted"
)

// ActivityEntry is an append-only audit trail record. Recording is
// fire-and-forget: a failed write never rolls back the node mutation.
type ActivityEntry struct {
	ID        string    `json:"id" db:"id"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	ActorName string    `json:"actor_name" db:"actor_name"`
	Action    string    `json:"action" db:"action"`
	NodeID    string    `json:"node_id" db:"node_id"`
	NodeType  NodeType  `json:"node_type" db:"node_type"`
	NodeTitle string    `json:"node_title" db:"node_title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
