package models

import (
	"fmt"
	"time"
)

// Default search configuration values
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// SearchOptions configures title search over the caller's doc pools.
// Docs are gathered from the personal pool plus, optionally, one organization.
type SearchOptions struct {
	// Query is the free-text query. Empty query returns the most recently
	// updated docs instead of matching.
	Query string

	// OrgID optionally adds one organization pool to the personal pool.
	OrgID string

	// Limit caps the number of results (default: 10).
	Limit int
}

// ApplyDefaults fills in default values for unset fields.
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
}

// Validate checks that values are reasonable.
func (opts *SearchOptions) Validate() error {
	if opts.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if opts.Limit > MaxSearchLimit {
		return fmt.Errorf("limit cannot exceed %d (requested: %d)", MaxSearchLimit, opts.Limit)
	}
	return nil
}

// SearchResult is one ranked title match. Matches whose title starts with the
// query rank ahead of matches that merely contain it; recency breaks ties
// within each group.
type SearchResult struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Icon        *string    `json:"icon,omitempty"`
	ParentID    *string    `json:"parent_id"`
	Status      *DocStatus `json:"status,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PrefixMatch bool       `json:"prefix_match"`
}
