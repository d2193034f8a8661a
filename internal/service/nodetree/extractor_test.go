package nodetree

import (
	"encoding/json"
	"testing"
)

func TestRichTextExtractor(t *testing.T) {
	e := NewRichTextExtractor()

	tests := []struct {
		name      string
		content   string
		wantWords int
	}{
		{
			name:      "empty payload",
			content:   "",
			wantWords: 0,
		},
		{
			name:      "plain json string",
			content:   `"three little words"`,
			wantWords: 3,
		},
		{
			name: "rich text tree",
			content: `{
				"type": "doc",
				"content": [
					{"type": "paragraph", "content": [
						{"type": "text", "text": "hello world"},
						{"type": "text", "text": "again"}
					]},
					{"type": "paragraph", "content": [
						{"type": "text", "text": "second paragraph here"}
					]}
				]
			}`,
			wantWords: 6,
		},
		{
			name:      "unparsable payload treated as raw text",
			content:   `not json at all`,
			wantWords: 4,
		},
		{
			name:      "nodes without text contribute nothing",
			content:   `{"type":"horizontal_rule"}`,
			wantWords: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CountWords(json.RawMessage(tt.content)); got != tt.wantWords {
				t.Errorf("CountWords() = %d, want %d", got, tt.wantWords)
			}
		})
	}
}

func TestRichTextExtractorDocumentOrder(t *testing.T) {
	e := NewRichTextExtractor()
	content := json.RawMessage(`{"content":[{"text":"first"},{"text":"second"},{"content":[{"text":"third"}]}]}`)
	if got := e.ExtractText(content); got != "first second third" {
		t.Errorf("ExtractText() = %q, want document order preserved", got)
	}
}
