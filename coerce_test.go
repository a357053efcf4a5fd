package flattab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceLeafEmptyIsMissing(t *testing.T) {
	assert.Nil(t, CoerceLeaf(NewString(""), TypeString))
	assert.Nil(t, CoerceLeaf(nil, TypeString))
}

func TestCoerceLeafStringifiesForStringType(t *testing.T) {
	v := CoerceLeaf(NewInteger(2), TypeString)
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, "2", v.Str())
}

func TestCoerceLeafParsesIntegerFromString(t *testing.T) {
	v := CoerceLeaf(NewString("42"), TypeInteger)
	assert.Equal(t, KindInteger, v.Kind)
	assert.Equal(t, int64(42), v.Int())
}

func TestCoerceLeafParsesNumberFromString(t *testing.T) {
	v := CoerceLeaf(NewString("3.5"), TypeNumber)
	assert.Equal(t, KindNumber, v.Kind)
	assert.Equal(t, 3.5, v.Float())
}

func TestCoerceLeafPassesThroughUnknownType(t *testing.T) {
	raw := NewBool(true)
	v := CoerceLeaf(raw, TypeUnknown)
	assert.Same(t, raw, v)
}

func TestCoerceStringArraySplitsOnSemicolon(t *testing.T) {
	v := CoerceStringArray(NewString("a;b;c"))
	items := v.Array()
	assert.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Str())
	assert.Equal(t, "c", items[2].Str())
}

func TestCoerceStringArraySingleItemNoDelimiter(t *testing.T) {
	v := CoerceStringArray(NewString("solo"))
	assert.Len(t, v.Array(), 1)
	assert.Equal(t, "solo", v.Array()[0].Str())
}

func TestCoerceStringArrayEmptyIsMissing(t *testing.T) {
	assert.Nil(t, CoerceStringArray(NewString("")))
}
