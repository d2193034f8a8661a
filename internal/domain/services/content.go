package services

import "encoding/json"

// TextExtractor turns the opaque content payload into plain text. The content
// schema is owned elsewhere; the tree engine only needs a pluggable way to
// count words for folder statistics.
type TextExtractor interface {
	// ExtractText returns the plain text of a content payload.
	ExtractText(content json.RawMessage) string

	// CountWords returns the estimated word count of a content payload.
	CountWords(content json.RawMessage) int
}
