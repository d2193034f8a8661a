package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DocumentVersion is an immutable historical snapshot of a document.
// It freezes the content/title as they were *before* the write that tripped
// the batching window. Versions are never mutated or deleted.
type DocumentVersion struct {
	ID             string          `json:"id" db:"id"`
	DocID          string          `json:"doc_id" db:"doc_id"`
	MajorVersion   int             `json:"major_version" db:"major_version"`
	MinorVersion   int             `json:"minor_version" db:"minor_version"`
	VersionString  string          `json:"version_string" db:"version_string"`
	Title          string          `json:"title" db:"title"`
	Content        json.RawMessage `json:"content" db:"content"`
	IsMajorVersion bool            `json:"is_major_version" db:"is_major_version"` // reserved for a future major-bump policy
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	CreatedByName  string          `json:"created_by_name" db:"created_by_name"`
}

// VersionString formats a version cursor as displayed to users, e.g. "v1.0".
func VersionString(major, minor int) string {
	return fmt.Sprintf("v%d.%d", major, minor)
}
