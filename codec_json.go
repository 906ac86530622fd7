package confkit

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec stores configuration as a pretty-printed JSON document.
// The intermediary representation is the parsed document map.
type JSONCodec[C any] struct{}

// NewJSONCodec creates a JSON codec for config type C.
// Struct fields map to document keys via `json` tags.
func NewJSONCodec[C any]() *JSONCodec[C] {
	return &JSONCodec[C]{}
}

// Encode converts a config instance into a document map.
func (*JSONCodec[C]) Encode(cfg C) (map[string]any, error) {
	return encodeDocument("json", cfg)
}

// Decode converts a document map back into a config instance.
func (*JSONCodec[C]) Decode(doc map[string]any) (C, error) {
	return decodeDocument[C]("json", doc)
}

// Read parses a JSON document from the stream.
func (*JSONCodec[C]) Read(r io.Reader) (map[string]any, error) {
	doc := make(map[string]any)

	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve number precision
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse JSON document: %w", ErrDecode, err)
	}

	return doc, nil
}

// Write serializes a document map to the stream as indented JSON.
func (*JSONCodec[C]) Write(w io.Writer, doc map[string]any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write JSON document: %w", err)
	}

	return nil
}
