package flattab

import "strings"

// Flatten walks a JSON array of objects into tabular sheets, the Flatten
// Walker of §4.G: scalar and nested-object fields land on the main
// sheet, each array-of-objects field spawns (or appends to) a subsheet
// named after its path, and every subsheet row carries back-reference
// columns tying it to its parent row. A bare object root (with no
// WithRootListPath option resolving to an array) is treated as a single
// record rather than an error.
func Flatten(doc *JsonValue, opts ...Option) (Sheets, *Warnings, error) {
	cfg := newConfig(opts)
	warnings := &Warnings{}
	if doc == nil {
		return nil, warnings, ErrNilDocument
	}

	root := doc
	if cfg.rootListPath != "" {
		for _, name := range strings.Split(cfg.rootListPath, "/") {
			root = root.Get(name)
			if root == nil {
				return nil, warnings, ErrRootNotArray
			}
		}
	}
	switch root.Kind {
	case KindArray:
		// already the array of records Flatten walks.
	case KindObject:
		// A bare object root (no root_list_path pointing at an array) is
		// treated as a single record, not an error.
		root = NewArray(root)
	default:
		return nil, warnings, ErrRootNotArray
	}

	var mainRows []Row
	subsheets := make(map[string]*SheetData)
	var order []string

	for i, item := range root.Array() {
		if item == nil || item.Kind != KindObject {
			continue
		}
		rootIDVal := identityValue(item, cfg.rootID)
		idVal := identityValue(item, "id")

		row := flattenObject(item, nil, warnings, "main", i)
		row = append(row, ProjectRollupColumns(item, cfg.schema, warnings, "main", i)...)
		mainRows = append(mainRows, row)

		flattenArrays(item, nil, cfg, rootIDVal, idVal, warnings, subsheets, &order)
	}

	sheets := Sheets{{Name: "main", Rows: mainRows}}
	for _, name := range order {
		sheets = append(sheets, *subsheets[name])
	}
	return sheets, warnings, nil
}

// flattenObject walks obj's own fields (not descending into
// array-of-objects fields, which flattenArrays handles separately as
// subsheets) and returns the columns they contribute at prefix.
func flattenObject(obj *JsonValue, prefix Path, warnings *Warnings, sheet string, row int) Row {
	var out Row
	for _, key := range obj.Keys() {
		val := obj.Get(key)
		path := appendStep(prefix, FieldStep(key))
		out = append(out, flattenValue(path, val, warnings, sheet, row)...)
	}
	return out
}

func flattenValue(path Path, val *JsonValue, warnings *Warnings, sheet string, row int) Row {
	if val == nil || val.Kind == KindNull {
		return nil
	}
	switch val.Kind {
	case KindObject:
		return flattenObject(val, path, warnings, sheet, row)
	case KindArray:
		if isScalarArray(val) {
			return Row{{Name: path.String(), Value: serializeStringArray(val)}}
		}
		// Array of objects: surfaced as a subsheet by flattenArrays, not
		// inlined as a column here.
		return nil
	default:
		return Row{{Name: path.String(), Value: val}}
	}
}

func isScalarArray(v *JsonValue) bool {
	for _, item := range v.Array() {
		if item != nil && (item.Kind == KindObject || item.Kind == KindArray) {
			return false
		}
	}
	return true
}

func serializeStringArray(v *JsonValue) *JsonValue {
	items := v.Array()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, stringify(item))
	}
	return NewString(strings.Join(parts, string(StringArrayDelimiter)))
}

// flattenArrays recurses through obj looking for array-of-objects fields,
// emitting one subsheet row per item, each tied back to (rootIDVal,
// idVal) by back-reference columns.
func flattenArrays(obj *JsonValue, prefix Path, cfg *Config, rootIDVal, idVal string, warnings *Warnings, subsheets map[string]*SheetData, order *[]string) {
	for _, key := range obj.Keys() {
		val := obj.Get(key)
		if val == nil {
			continue
		}
		path := appendStep(prefix, FieldStep(key))
		switch val.Kind {
		case KindObject:
			flattenArrays(val, path, cfg, rootIDVal, idVal, warnings, subsheets, order)
		case KindArray:
			if isScalarArray(val) {
				continue
			}
			name := path.String()
			sheet, ok := subsheets[name]
			if !ok {
				sheet = &SheetData{Name: name}
				subsheets[name] = sheet
				*order = append(*order, name)
			}
			for _, item := range val.Array() {
				if item == nil || item.Kind != KindObject {
					continue
				}
				rowNum := len(sheet.Rows)
				var row Row
				if cfg.rootID != "" {
					row = append(row, Column{Name: cfg.rootID, Value: NewString(rootIDVal)})
				}
				row = append(row, Column{Name: backReferenceColumn(path), Value: NewString(idVal)})
				row = append(row, flattenObject(item, path, warnings, name, rowNum)...)
				row = append(row, ProjectRollupColumns(item, cfg.schema, warnings, name, rowNum)...)
				sheet.Rows = append(sheet.Rows, row)
				flattenArrays(item, path, cfg, rootIDVal, identityValue(item, "id"), warnings, subsheets, order)
			}
		}
	}
}

// backReferenceColumn names the column a subsheet row uses to reference
// its parent's id: plain "id" for a direct child of the root object, and
// "<arrayPath>[]/id" for a nested array, following the flatten-tool
// convention of marking array segments with "[]".
func backReferenceColumn(path Path) string {
	if len(path) == 1 {
		return "id"
	}
	return path[:len(path)-1].String() + "[]/id"
}

func appendStep(prefix Path, step PathStep) Path {
	out := make(Path, 0, len(prefix)+1)
	out = append(out, prefix...)
	out = append(out, step)
	return out
}
