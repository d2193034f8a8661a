package models

import "time"

// FolderStats aggregates a folder's subtree: counts of live docs and folders,
// an estimated word count across all descendant docs, and the most recent
// update among the folder's *direct* children only (not full descendants).
type FolderStats struct {
	TotalDocs      int        `json:"total_docs"`
	TotalFolders   int        `json:"total_folders"`
	EstimatedWords int        `json:"estimated_words"`
	LastUpdatedAt  *time.Time `json:"last_updated_at,omitempty"`
}

// Contributor is one editor of a folder's descendant docs, folded by the
// last-writer audit field.
type Contributor struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	EditCount    int       `json:"edit_count"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// DescendantNode is one entry of a bounded-depth table-of-contents snapshot.
// Folders carry their children nested; docs are leaves.
type DescendantNode struct {
	ID        string            `json:"id"`
	Type      NodeType          `json:"type"`
	Title     string            `json:"title"`
	Icon      *string           `json:"icon,omitempty"`
	Order     int               `json:"order"`
	Status    *DocStatus        `json:"status,omitempty"`
	Depth     int               `json:"depth"`
	UpdatedAt time.Time         `json:"updated_at"`
	Children  []*DescendantNode `json:"children,omitempty"`
}
