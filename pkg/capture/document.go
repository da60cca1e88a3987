package capture

import (
	"fmt"

	"rag-debugger-be/internal/entity"
)

// Document is the closed set of shapes the boundary adapter may hand to
// CaptureRetrieval. Frameworks with richer document objects are resolved
// into one of these before they reach the core.
type Document interface {
	isDocument()
}

// StructuredDoc is a document that already separated text from metadata.
type StructuredDoc struct {
	Text     string
	Metadata map[string]interface{}
}

// MappingDoc is a loose key-value document; the text lives under a
// text-ish key.
type MappingDoc struct {
	Fields map[string]interface{}
}

// PlainText is a bare string with no metadata at all.
type PlainText string

func (StructuredDoc) isDocument() {}
func (MappingDoc) isDocument()    {}
func (PlainText) isDocument()     {}

// resolveChunk extracts {text, metadata} from a document. Extraction is a
// tolerance contract: missing or malformed metadata degrades to zero
// values and never fails.
func resolveChunk(doc Document) entity.RetrievedChunk {
	var text string
	var meta map[string]interface{}

	switch d := doc.(type) {
	case StructuredDoc:
		text = d.Text
		meta = d.Metadata
	case *StructuredDoc:
		text = d.Text
		meta = d.Metadata
	case MappingDoc:
		text, meta = resolveMapping(d.Fields)
	case *MappingDoc:
		text, meta = resolveMapping(d.Fields)
	case PlainText:
		text = string(d)
	default:
		text = fmt.Sprint(doc)
	}

	return entity.RetrievedChunk{
		Text: text,
		Metadata: entity.ChunkMetadata{
			Source:     stringValue(meta, "source"),
			Page:       intValue(meta, "page"),
			Score:      scoreValue(meta),
			DocumentId: firstStringValue(meta, "doc_id", "id"),
		},
	}
}

func resolveMapping(fields map[string]interface{}) (string, map[string]interface{}) {
	text := ""
	if v, ok := fields["page_content"].(string); ok {
		text = v
	} else if v, ok := fields["text"].(string); ok {
		text = v
	} else {
		text = fmt.Sprint(fields)
	}

	meta, _ := fields["metadata"].(map[string]interface{})
	return text, meta
}

// scoreValue reads the relevance score from "score", then "similarity".
// Non-numeric values default to 0.
func scoreValue(meta map[string]interface{}) float64 {
	for _, key := range []string{"score", "similarity"} {
		if v, ok := meta[key]; ok {
			if score, ok := asFloat(v); ok {
				return score
			}
		}
	}
	return 0.0
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stringValue(meta map[string]interface{}, key string) *string {
	if v, ok := meta[key].(string); ok {
		return &v
	}
	return nil
}

func firstStringValue(meta map[string]interface{}, keys ...string) *string {
	for _, key := range keys {
		if v := stringValue(meta, key); v != nil {
			return v
		}
	}
	return nil
}

func intValue(meta map[string]interface{}, key string) *int {
	if v, ok := meta[key]; ok {
		switch n := v.(type) {
		case int:
			return &n
		case int64:
			i := int(n)
			return &i
		case float64:
			i := int(n)
			return &i
		}
	}
	return nil
}
