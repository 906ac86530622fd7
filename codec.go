package confkit

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Codec translates between config instances of type C and an intermediary
// representation F (e.g., a parsed document tree), and between F and raw
// bytes. The split lets one wire format serve many independently defined
// config schemas without re-implementing parsing per schema.
//
// Codecs are stateless; all methods are pure transformations. Stream
// ownership stays with the caller: Read and Write never close the stream
// they are given.
type Codec[C, F any] interface {
	// Encode converts a config instance into its intermediary form.
	// An error means the instance could not be represented.
	Encode(cfg C) (F, error)

	// Decode converts an intermediary document back into a config instance.
	// Malformed or schema-incompatible documents return an error, never panic.
	Decode(data F) (C, error)

	// Read parses a byte stream into an intermediary document.
	Read(r io.Reader) (F, error)

	// Write serializes an intermediary document to a byte stream.
	Write(w io.Writer, data F) error
}

// decodeDocument converts an intermediary document map into a config struct
// using mapstructure with the given tag name. ErrorUnused makes documents
// carrying removed or renamed fields fail decode, so stale files fall back to
// defaults instead of half-loading.
func decodeDocument[C any](tagName string, doc map[string]any) (C, error) {
	var out C

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          tagName,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonNumberHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return out, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(doc); err != nil {
		return out, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return out, nil
}

// jsonNumberHookFunc normalizes json.Number values to int64 or float64
// before any other hook runs. The JSON codec parses with UseNumber, and
// json.Number's kind is string, which would otherwise reach the duration
// hook's string assertion with a non-string value.
func jsonNumberHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		num, ok := data.(json.Number)
		if !ok {
			return data, nil
		}

		if i, err := num.Int64(); err == nil {
			return i, nil
		}
		if fl, err := num.Float64(); err == nil {
			return fl, nil
		}

		// Not numeric after all; hand the raw text to later hooks.
		return num.String(), nil
	}
}

// encodeDocument converts a config struct into an intermediary document map,
// honoring the same tag name the decode path uses.
func encodeDocument[C any](tagName string, cfg C) (map[string]any, error) {
	doc := make(map[string]any)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &doc,
		TagName: tagName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	return doc, nil
}
