package flattab

import "strings"

// rollupSuffix marks a rolled-up column's array segment, e.g.
// "testB[]/fieldName" rather than "testB/fieldName" — the square
// brackets signal "this used to be a subsheet, projected onto the main
// sheet because the array held exactly one item" (§4.H).
const rollupSuffix = "[]"

// RollupSentinel is written into a rollup column when the array actually
// held more than one item: the data genuinely does not fit in a single
// cell, and the subsheet remains the source of truth.
const RollupSentinel = "WARNING: More than one value supplied, consult the relevant sub-sheet for the data."

// RewriteRollupColumn recognises a rolled-up column name's first segment
// ending in "[]" and rewrites it back to a plain field path, so the
// ordinary lexer/schema/Tree-Builder pipeline can fold it like any other
// column. The rewritten path still resolves as a schema array and so
// still gains an implicit anonymous-item step from
// SchemaIndex.InsertImplicitArrayStep.
func RewriteRollupColumn(column string) (string, bool) {
	i := strings.IndexByte(column, '/')
	var head, rest string
	if i < 0 {
		head, rest = column, ""
	} else {
		head, rest = column[:i], column[i+1:]
	}
	if !strings.HasSuffix(head, rollupSuffix) {
		return column, false
	}
	field := strings.TrimSuffix(head, rollupSuffix)
	if rest == "" {
		return field, true
	}
	return field + "/" + rest, true
}

// ProjectRollupColumns inspects obj's direct array fields and, for any
// that the schema marks with rollUp fields, produces extra main-sheet
// columns surfacing those fields: the array's sole item's values when it
// holds exactly one item, or RollupSentinel (with a recorded warning)
// when it holds more than one (§4.H).
func ProjectRollupColumns(obj *JsonValue, schema *SchemaIndex, warnings *Warnings, sheet string, row int) Row {
	if obj == nil || obj.Kind != KindObject || schema == nil {
		return nil
	}
	var out Row
	for _, key := range obj.Keys() {
		val := obj.Get(key)
		if val == nil || val.Kind != KindArray {
			continue
		}
		path := Path{FieldStep(key)}
		fields := schema.RollupFields(path)
		if len(fields) == 0 {
			continue
		}
		items := val.Array()
		switch {
		case len(items) == 1:
			item := items[0]
			for _, field := range schema.CanonicalColumns(path) {
				if !fields[field] {
					continue
				}
				v := item.Get(field)
				if v == nil {
					continue
				}
				out = append(out, Column{Name: key + rollupSuffix + "/" + field, Value: NewString(stringify(v))})
			}
		case len(items) > 1:
			for _, field := range schema.CanonicalColumns(path) {
				if !fields[field] {
					continue
				}
				out = append(out, Column{Name: key + rollupSuffix + "/" + field, Value: NewString(RollupSentinel)})
			}
			warnings.add(sheet, row, "Could not provide rollup data for %q: more than one value supplied", key)
		}
	}
	return out
}
