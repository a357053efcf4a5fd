// Package input decodes caller-supplied schema documents and config
// values into the map[string]any shape the rest of flattab builds its
// schema tree from.
package input

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	json "github.com/goccy/go-json"
)

var (
	ErrUndefinedInput = errors.New("nil input")
	ErrInvalidInput   = errors.New("invalid input")
)

// Map decodes a into map[string]any. a may already be that type, a JSON
// document as string or []byte, or any other Go value mapstructure can
// decode (a struct, a map with a different value type, and so on).
//
// The result is a plain map[string]any and does not keep the document's
// key order; flattab.SchemaIndex takes property order from an explicit
// "propertyOrder" array when the schema has one. flattab.JsonValue, not
// this map, is the order-preserving type used for actual JSON documents.
func Map(a any) (map[string]any, error) {
	m := map[string]any{}
	switch v := a.(type) {
	case nil:
		return nil, ErrUndefinedInput
	case map[string]any:
		return v, nil
	case []byte:
		if err := decodeJSON(v, &m); err != nil {
			return nil, err
		}
	case string:
		if err := decodeJSON([]byte(v), &m); err != nil {
			return nil, err
		}
	default:
		if err := mapstructure.Decode(a, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return m, nil
}

func decodeJSON(b []byte, out *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
