package confkit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec stores configuration as a YAML document.
type YAMLCodec[C any] struct{}

// NewYAMLCodec creates a YAML codec for config type C.
// Struct fields map to document keys via `yaml` tags.
func NewYAMLCodec[C any]() *YAMLCodec[C] {
	return &YAMLCodec[C]{}
}

// Encode converts a config instance into a document map.
func (*YAMLCodec[C]) Encode(cfg C) (map[string]any, error) {
	return encodeDocument("yaml", cfg)
}

// Decode converts a document map back into a config instance.
func (*YAMLCodec[C]) Decode(doc map[string]any) (C, error) {
	return decodeDocument[C]("yaml", doc)
}

// Read parses a YAML document from the stream. An empty stream is treated
// as a malformed document, not an empty config.
func (*YAMLCodec[C]) Read(r io.Reader) (map[string]any, error) {
	doc := make(map[string]any)

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse YAML document: %w", ErrDecode, err)
	}

	return doc, nil
}

// Write serializes a document map to the stream as YAML.
func (*YAMLCodec[C]) Write(w io.Writer, doc map[string]any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to write YAML document: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML document: %w", err)
	}

	return nil
}
