package config

import "time"

const (
	// MaxTitleLength is the maximum length for node titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// MaxDescriptionLength is the maximum length for node descriptions.
	MaxDescriptionLength = 2000

	// MaxIconLength bounds icon identifiers (emoji or icon-set key).
	MaxIconLength = 64

	// MaxTagsPerNode bounds the tag set attachable to a single node.
	MaxTagsPerNode = 32

	// MaxTagNameLength is the maximum length for tag names.
	MaxTagNameLength = 64

	// VersionBatchWindow groups rapid successive content saves into a
	// single historical version. Saves landing within this window of the
	// last snapshot advance the content without freezing a new version.
	VersionBatchWindow = 30 * time.Second

	// DefaultActivityLimit is the page size for recent activity listings.
	DefaultActivityLimit = 20

	// MaxActivityLimit caps requested activity page sizes.
	MaxActivityLimit = 100
)
