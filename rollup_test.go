package flattab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteRollupColumn(t *testing.T) {
	rewritten, ok := RewriteRollupColumn("testR[]/testB")
	assert.True(t, ok)
	assert.Equal(t, "testR/testB", rewritten)

	_, ok = RewriteRollupColumn("testR/testB")
	assert.False(t, ok)
}

func rollupSchemaDoc() map[string]any {
	return map[string]any{
		"properties": map[string]any{
			"testR": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"testB": map[string]any{"type": "string"},
					},
				},
				"rollUp": []any{"testB"},
			},
		},
	}
}

func rollupSchema() *SchemaIndex {
	idx, _ := NewSchemaIndex(rollupSchemaDoc(), "ocid", true)
	return idx
}

func TestProjectRollupColumnsSingleItem(t *testing.T) {
	idx := rollupSchema()
	item := obj(map[string]*JsonValue{"id": NewString("1"), "testB": NewString("hi")})
	parent := obj(map[string]*JsonValue{"testR": NewArray(item)})

	w := &Warnings{}
	cols := ProjectRollupColumns(parent, idx, w, "main", 0)
	assert.Len(t, cols, 1)
	assert.Equal(t, "testR[]/testB", cols[0].Name)
	assert.Equal(t, "hi", cols[0].Value.Str())
	assert.Equal(t, 0, w.Len())
}

func TestProjectRollupColumnsMultiItemWarnsAndSentinels(t *testing.T) {
	idx := rollupSchema()
	item1 := obj(map[string]*JsonValue{"id": NewString("1"), "testB": NewString("a")})
	item2 := obj(map[string]*JsonValue{"id": NewString("2"), "testB": NewString("b")})
	parent := obj(map[string]*JsonValue{"testR": NewArray(item1, item2)})

	w := &Warnings{}
	cols := ProjectRollupColumns(parent, idx, w, "main", 0)
	assert.Len(t, cols, 1)
	assert.Equal(t, RollupSentinel, cols[0].Value.Str())
	assert.Equal(t, 1, w.Len())
}

func TestRollupFieldsNilWhenRollupDisabled(t *testing.T) {
	idx, _ := NewSchemaIndex(rollupSchemaDoc(), "ocid", false)
	assert.Nil(t, idx.RollupFields(Path{FieldStep("testR")}))
}

func TestProjectRollupColumnsEmptyWhenRollupDisabled(t *testing.T) {
	idx, _ := NewSchemaIndex(rollupSchemaDoc(), "ocid", false)
	item := obj(map[string]*JsonValue{"id": NewString("1"), "testB": NewString("hi")})
	parent := obj(map[string]*JsonValue{"testR": NewArray(item)})

	w := &Warnings{}
	cols := ProjectRollupColumns(parent, idx, w, "main", 0)
	assert.Len(t, cols, 0)
	assert.Equal(t, 0, w.Len())
}

func TestUnflattenRollupColumnIgnoredWhenRollupDisabled(t *testing.T) {
	idx, _ := NewSchemaIndex(rollupSchemaDoc(), "ocid", false)
	sheets := Sheets{
		{Name: "main", Rows: []Row{
			row(Column{Name: "testR[]/testB", Value: NewString("hi")}),
		}},
	}
	objects, _, err := Unflatten(sheets, WithSchema(idx), WithRollup(false))
	assert.NoError(t, err)
	assert.Len(t, objects, 1)
	assert.Nil(t, objects[0].Get("testR"))
}

func TestUnflattenRollupColumnRoundTrips(t *testing.T) {
	idx := rollupSchema()
	sheets := Sheets{
		{Name: "main", Rows: []Row{
			row(Column{Name: "testR[]/testB", Value: NewString("hi")}),
		}},
	}
	objects, _, err := Unflatten(sheets, WithSchema(idx), WithRollup(true))
	assert.NoError(t, err)
	items := objects[0].Get("testR").Array()
	assert.Len(t, items, 1)
	assert.Equal(t, "hi", items[0].Get("testB").Str())
}
