package flattab

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags the variant held by a JsonValue. All shape decisions in the
// engine are made by inspecting Kind, never by duck-typing a Go `any`.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// JsonValue is a tagged variant over the JSON data model: null, bool,
// integer, number, string, an ordered array, or an object whose fields
// preserve insertion order. Object uses an *orderedmap.OrderedMap rather
// than a plain Go map because output column ordering is observable and
// must not depend on map iteration order.
type JsonValue struct {
	Kind Kind

	boolVal   bool
	intVal    int64
	numberVal float64
	strVal    string
	arrVal    []*JsonValue
	objVal    *orderedmap.OrderedMap[string, *JsonValue]
}

func NewNull() *JsonValue  { return &JsonValue{Kind: KindNull} }
func NewBool(b bool) *JsonValue { return &JsonValue{Kind: KindBool, boolVal: b} }
func NewInteger(i int64) *JsonValue { return &JsonValue{Kind: KindInteger, intVal: i} }
func NewNumber(n float64) *JsonValue { return &JsonValue{Kind: KindNumber, numberVal: n} }
func NewString(s string) *JsonValue { return &JsonValue{Kind: KindString, strVal: s} }

func NewArray(items ...*JsonValue) *JsonValue {
	return &JsonValue{Kind: KindArray, arrVal: items}
}

func NewObject() *JsonValue {
	return &JsonValue{Kind: KindObject, objVal: orderedmap.New[string, *JsonValue]()}
}

func (v *JsonValue) IsNull() bool   { return v == nil || v.Kind == KindNull }
func (v *JsonValue) Bool() bool     { return v.boolVal }
func (v *JsonValue) Int() int64     { return v.intVal }
func (v *JsonValue) Float() float64 { return v.numberVal }
func (v *JsonValue) Str() string    { return v.strVal }
func (v *JsonValue) Array() []*JsonValue {
	return v.arrVal
}

// Object returns the underlying ordered map, creating one if the receiver
// was a freshly-zeroed JsonValue of KindObject with a nil map.
func (v *JsonValue) Object() *orderedmap.OrderedMap[string, *JsonValue] {
	if v.objVal == nil {
		v.objVal = orderedmap.New[string, *JsonValue]()
	}
	return v.objVal
}

// Get returns the field named name from an Object, or nil if absent or
// the receiver is not an Object.
func (v *JsonValue) Get(name string) *JsonValue {
	if v == nil || v.Kind != KindObject || v.objVal == nil {
		return nil
	}
	val, ok := v.objVal.Get(name)
	if !ok {
		return nil
	}
	return val
}

// Set assigns field name to val on an Object, preserving first-seen
// insertion order for new fields.
func (v *JsonValue) Set(name string, val *JsonValue) {
	if v.Kind != KindObject {
		panic("flattab: Set called on non-object JsonValue")
	}
	v.Object().Set(name, val)
}

// Append adds an item to an Array.
func (v *JsonValue) Append(item *JsonValue) {
	if v.Kind != KindArray {
		panic("flattab: Append called on non-array JsonValue")
	}
	v.arrVal = append(v.arrVal, item)
}

// Keys returns the field names of an Object in insertion order.
func (v *JsonValue) Keys() []string {
	if v == nil || v.Kind != KindObject || v.objVal == nil {
		return nil
	}
	keys := make([]string, 0, v.objVal.Len())
	for pair := v.objVal.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Equal reports whether two JsonValues describe the same data, comparing
// objects field-for-field regardless of order (order affects serialised
// column position, not equality of the parsed value).
func (v *JsonValue) Equal(o *JsonValue) bool {
	if v == nil || o == nil {
		return v.IsNull() && o.IsNull()
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindInteger:
		return v.intVal == o.intVal
	case KindNumber:
		return v.numberVal == o.numberVal
	case KindString:
		return v.strVal == o.strVal
	case KindArray:
		if len(v.arrVal) != len(o.arrVal) {
			return false
		}
		for i := range v.arrVal {
			if !v.arrVal[i].Equal(o.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.objVal.Len() != o.objVal.Len() {
			return false
		}
		for pair := v.objVal.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := o.objVal.Get(pair.Key)
			if !ok || !pair.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON writes the value as JSON text, preserving Object field order.
func (v *JsonValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *JsonValue) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.boolVal {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInteger:
		buf.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindNumber:
		buf.WriteString(strconv.FormatFloat(v.numberVal, 'g', -1, 64))
	case KindString:
		b, err := json.Marshal(v.strVal)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for pair := v.Object().Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			kb, err := json.Marshal(pair.Key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := pair.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("flattab: unknown JsonValue kind %v", v.Kind)
	}
	return nil
}

// DecodeJSON reads one JSON document from r into a JsonValue tree,
// preserving object field order. Integers decode to KindInteger and
// anything with a fraction or exponent decodes to KindNumber, mirroring
// the string input that the Value Coercer also has to classify.
func DecodeJSON(r io.Reader) (*JsonValue, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return decodeValue(dec)
}

// DecodeJSONBytes is a convenience wrapper around DecodeJSON for an
// in-memory document.
func DecodeJSONBytes(b []byte) (*JsonValue, error) {
	return DecodeJSON(bytes.NewReader(b))
}

func decodeValue(dec *json.Decoder) (*JsonValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*JsonValue, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("flattab: expected object key, got %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("flattab: unexpected delimiter %v", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewInteger(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("flattab: invalid number %q: %w", t.String(), err)
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("flattab: unexpected token %v", tok)
	}
}
