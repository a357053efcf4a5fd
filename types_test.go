package flattab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithSchemaDocumentAcceptsJSONString(t *testing.T) {
	sheets := Sheets{
		{Name: "main", Rows: []Row{
			row(Column{Name: "count", Value: NewString("3")}),
		}},
	}
	objects, _, err := Unflatten(sheets, WithSchemaDocument(`{"properties":{"count":{"type":"integer"}}}`))
	assert.NoError(t, err)
	assert.Equal(t, int64(3), objects[0].Get("count").Int())
}

func TestWithSchemaDocumentAcceptsDecodedMap(t *testing.T) {
	doc := map[string]any{
		"properties": map[string]any{
			"count": map[string]any{"type": "integer"},
		},
	}
	sheets := Sheets{
		{Name: "main", Rows: []Row{
			row(Column{Name: "count", Value: NewString("3")}),
		}},
	}
	objects, _, err := Unflatten(sheets, WithSchemaDocument(doc))
	assert.NoError(t, err)
	assert.Equal(t, int64(3), objects[0].Get("count").Int())
}
