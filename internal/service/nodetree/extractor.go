package nodetree

import (
	"encoding/json"
	"strings"

	"arbor/internal/domain/services"
)

// richTextExtractor pulls plain text out of the opaque content payload by
// collecting every "text" string in the rich-text JSON tree. The content
// schema itself is owned by the editor; the engine only needs word counts.
type richTextExtractor struct{}

// NewRichTextExtractor creates the default text extractor.
func NewRichTextExtractor() services.TextExtractor {
	return &richTextExtractor{}
}

// ExtractText returns the plain text of a content payload. Payloads that are
// not structured rich text degrade gracefully: a JSON string yields its value,
// anything unparsable is treated as raw text.
func (e *richTextExtractor) ExtractText(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return string(content)
	}

	var sb strings.Builder
	collectText(doc, &sb)
	return sb.String()
}

// CountWords returns the estimated word count of a content payload.
func (e *richTextExtractor) CountWords(content json.RawMessage) int {
	return len(strings.Fields(e.ExtractText(content)))
}

// collectText walks a decoded JSON value with an explicit worklist,
// appending every "text" field and separating block values with spaces.
func collectText(root interface{}, sb *strings.Builder) {
	stack := []interface{}{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch val := v.(type) {
		case string:
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(val)
		case map[string]interface{}:
			if text, ok := val["text"].(string); ok {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
			if children, ok := val["content"].([]interface{}); ok {
				for i := len(children) - 1; i >= 0; i-- {
					stack = append(stack, children[i])
				}
			}
		case []interface{}:
			for i := len(val) - 1; i >= 0; i-- {
				stack = append(stack, val[i])
			}
		}
	}
}
