package flattab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func foldColumnPath(t *testing.T, rb *RowBuilder, column string, value *JsonValue) {
	t.Helper()
	p, err := LexFieldPath(column)
	assert.NoError(t, err)
	rb.Fold(p, value)
}

func TestRowBuilderSimpleNestedObject(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	foldColumnPath(t, rb, "a/b/c", NewString("x"))
	result := rb.Result()
	assert.Equal(t, "x", result.Get("a").Get("b").Get("c").Str())
	assert.Equal(t, 0, w.Len())
}

func TestRowBuilderArrayWithExplicitIndices(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	foldColumnPath(t, rb, "testR/0/id", NewString("0"))
	foldColumnPath(t, rb, "testR/0/testB", NewString("1"))
	foldColumnPath(t, rb, "testR/5/id", NewString("5"))
	foldColumnPath(t, rb, "testR/5/testB", NewString("5"))

	items := rb.Result().Get("testR").Array()
	assert.Len(t, items, 2)
	assert.Equal(t, "0", items[0].Get("id").Str())
	assert.Equal(t, "5", items[1].Get("id").Str())
}

func TestRowBuilderAnonymousItemMergesAcrossColumns(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	foldColumnPath(t, rb, "testR/-1/id", NewString("-1"))
	foldColumnPath(t, rb, "testR/-1/testB", NewString("-1"))
	foldColumnPath(t, rb, "testR/-2/testX", NewString("-2"))
	foldColumnPath(t, rb, "testR/0/id", NewString("0"))
	foldColumnPath(t, rb, "testR/5/id", NewString("5"))

	items := rb.Result().Get("testR").Array()
	assert.Len(t, items, 3)
	assert.Equal(t, "-1", items[0].Get("id").Str())
	assert.Equal(t, "-1", items[0].Get("testB").Str())
	assert.Equal(t, "-2", items[0].Get("testX").Str())
	assert.Equal(t, "0", items[1].Get("id").Str())
	assert.Equal(t, "5", items[2].Get("id").Str())
}

func TestRowBuilderShapeConflictObjectThenArray(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	foldColumnPath(t, rb, "newtest/a", NewString("1"))
	foldColumnPath(t, rb, "newtest/0/a", NewString("2"))

	assert.Equal(t, "1", rb.Result().Get("newtest").Get("a").Str())
	assert.Equal(t, 1, w.Len())
	assert.Equal(t,
		`Column newtest/0/a has been ignored, because it treats newtest as an array, but another column does not.`,
		w.All()[0].Message)
}

func TestRowBuilderShapeConflictArrayThenObject(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	foldColumnPath(t, rb, "newtest/0/a", NewString("2"))
	foldColumnPath(t, rb, "newtest/a", NewString("1"))

	items := rb.Result().Get("newtest").Array()
	assert.Len(t, items, 1)
	assert.Equal(t, 1, w.Len())
	assert.Equal(t,
		`Column newtest/a has been ignored, because it treats newtest as an object, but another column does not.`,
		w.All()[0].Message)
}

func TestRowBuilderScalarThenArrayConflict(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	foldColumnPath(t, rb, "newtest", NewInteger(3))
	foldColumnPath(t, rb, "newtest/0/a", NewString("2"))

	assert.Equal(t, int64(3), rb.Result().Get("newtest").Int())
	assert.Equal(t, 1, w.Len())
	assert.Equal(t,
		`Column newtest/0/a has been ignored, because it treats newtest as an array, but another column does not.`,
		w.All()[0].Message)
}

func TestRowBuilderEmptyCellEstablishesNoShape(t *testing.T) {
	w := &Warnings{}
	rb := NewRowBuilder(w, "main", 0)
	rb.Fold(Path{FieldStep("a")}, nil)
	assert.Len(t, rb.Result().Keys(), 0)
}
