package confkit

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// TOMLCodec stores configuration as a TOML document.
type TOMLCodec[C any] struct{}

// NewTOMLCodec creates a TOML codec for config type C.
// Struct fields map to document keys via `toml` tags.
func NewTOMLCodec[C any]() *TOMLCodec[C] {
	return &TOMLCodec[C]{}
}

// Encode converts a config instance into a document map.
func (*TOMLCodec[C]) Encode(cfg C) (map[string]any, error) {
	return encodeDocument("toml", cfg)
}

// Decode converts a document map back into a config instance.
func (*TOMLCodec[C]) Decode(doc map[string]any) (C, error) {
	return decodeDocument[C]("toml", doc)
}

// Read parses a TOML document from the stream.
func (*TOMLCodec[C]) Read(r io.Reader) (map[string]any, error) {
	doc := make(map[string]any)

	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse TOML document: %w", ErrDecode, err)
	}

	return doc, nil
}

// Write serializes a document map to the stream as TOML.
func (*TOMLCodec[C]) Write(w io.Writer, doc map[string]any) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to write TOML document: %w", err)
	}

	return nil
}
