package flattab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func obj(fields map[string]*JsonValue) *JsonValue {
	o := NewObject()
	for k, v := range fields {
		o.Set(k, v)
	}
	return o
}

func TestChooseMainSheetSoleSheet(t *testing.T) {
	name, err := ChooseMainSheet([]string{"sheet1"})
	assert.NoError(t, err)
	assert.Equal(t, "sheet1", name)
}

func TestChooseMainSheetBySuffix(t *testing.T) {
	name, err := ChooseMainSheet([]string{"testA_main", "testB"})
	assert.NoError(t, err)
	assert.Equal(t, "testA_main", name)
}

func TestChooseMainSheetAmbiguous(t *testing.T) {
	_, err := ChooseMainSheet([]string{"a_main", "b_main"})
	assert.ErrorIs(t, err, ErrAmbiguousMainSheet)
}

func TestChooseMainSheetNone(t *testing.T) {
	_, err := ChooseMainSheet([]string{"a", "b"})
	assert.ErrorIs(t, err, ErrNoMainSheet)
}

func TestJoinSheetsBasicSubsheetMerge(t *testing.T) {
	w := &Warnings{}
	main := []BuiltRow{
		{Sheet: "main", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"),
		})},
	}
	sub := []SubsheetRows{{Name: "testA", Rows: []BuiltRow{
		{Sheet: "testA", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"), "testField": NewString("value"),
		})},
	}}}

	out := JoinSheets("ocid", main, sub, w)
	assert.Len(t, out, 1)
	assert.Equal(t, "value", out[0].Get("testField").Str())
	assert.Equal(t, 0, w.Len())
}

func TestJoinSheetsUnmatchedIDFallsThroughStandalone(t *testing.T) {
	w := &Warnings{}
	main := []BuiltRow{
		{Sheet: "main", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"),
		})},
	}
	sub := []SubsheetRows{{Name: "testA", Rows: []BuiltRow{
		{Sheet: "testA", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("unmatched"), "testField": NewString("value"),
		})},
	}}}

	out := JoinSheets("ocid", main, sub, w)
	assert.Len(t, out, 2)
	assert.Equal(t, "value", out[1].Get("testField").Str())
}

func TestJoinSheetsEmptyIDFallsThroughStandalone(t *testing.T) {
	w := &Warnings{}
	main := []BuiltRow{
		{Sheet: "main", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"),
		})},
	}
	sub := []SubsheetRows{{Name: "testA", Rows: []BuiltRow{
		{Sheet: "testA", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "testField": NewString("value"),
		})},
	}}}

	out := JoinSheets("ocid", main, sub, w)
	assert.Len(t, out, 2)
}

func TestJoinSheetsConflictingFieldWarns(t *testing.T) {
	w := &Warnings{}
	main := []BuiltRow{
		{Sheet: "testA", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"), "testB": NewString("4"),
		})},
	}
	sub := []SubsheetRows{{Name: "testA", Rows: []BuiltRow{
		{Sheet: "testA", Row: 1, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"), "testB": NewString("5"),
		})},
	}}}

	out := JoinSheets("ocid", main, sub, w)
	assert.Len(t, out, 1)
	assert.Equal(t, "4", out[0].Get("testB").Str())
	assert.Equal(t, 1, w.Len())
	assert.Equal(t,
		`Conflict when merging field "testB" for ocid "1", id "2" in sheet testA: "4" != "5"`,
		w.All()[0].Message)
}

func TestJoinSheetsArrayMergeByID(t *testing.T) {
	w := &Warnings{}
	item1 := obj(map[string]*JsonValue{"id": NewString("x"), "a": NewString("1")})
	main := []BuiltRow{
		{Sheet: "main", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"), "items": NewArray(item1),
		})},
	}
	item1b := obj(map[string]*JsonValue{"id": NewString("x"), "b": NewString("2")})
	item2 := obj(map[string]*JsonValue{"id": NewString("y"), "a": NewString("3")})
	sub := []SubsheetRows{{Name: "testA", Rows: []BuiltRow{
		{Sheet: "testA", Row: 0, Object: obj(map[string]*JsonValue{
			"ocid": NewString("1"), "id": NewString("2"), "items": NewArray(item1b, item2),
		})},
	}}}

	out := JoinSheets("ocid", main, sub, w)
	assert.Len(t, out, 1)
	items := out[0].Get("items").Array()
	assert.Len(t, items, 2)
	assert.Equal(t, "1", items[0].Get("a").Str())
	assert.Equal(t, "2", items[0].Get("b").Str())
	assert.Equal(t, "3", items[1].Get("a").Str())
}
