package flattab

import "strings"

// BuiltRow pairs a Tree Builder result with where it came from, so the
// Sheet Joiner can name the right sheet and row in any warning it emits.
type BuiltRow struct {
	Object *JsonValue
	Sheet  string
	Row    int
}

// SubsheetRows is one subsheet's built rows, in file order.
type SubsheetRows struct {
	Name string
	Rows []BuiltRow
}

// identity is the (root id value, id value) pair the Sheet Joiner keys
// on, per §4.E.
type identity struct {
	rootID string
	id     string
}

func identityValue(obj *JsonValue, field string) string {
	if field == "" || obj == nil {
		return ""
	}
	v := obj.Get(field)
	if v == nil {
		return ""
	}
	return stringify(v)
}

// IsMainSheetName reports whether name looks like a main sheet by the
// "*_main" naming convention (§4.E).
func IsMainSheetName(name string) bool {
	return name == "main" || strings.HasSuffix(name, "_main")
}

// ChooseMainSheet picks the main sheet out of an ordered sheet-name list:
// the sole sheet if there is only one, otherwise the single sheet named
// exactly "main" or ending in "_main". Zero or more-than-one match is an
// error.
func ChooseMainSheet(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoSheets
	}
	if len(names) == 1 {
		return names[0], nil
	}
	var found string
	count := 0
	for _, n := range names {
		if IsMainSheetName(n) {
			found = n
			count++
		}
	}
	switch count {
	case 0:
		return "", ErrNoMainSheet
	case 1:
		return found, nil
	default:
		return "", ErrAmbiguousMainSheet
	}
}

// JoinSheets merges built main-sheet rows and subsheet rows into one
// ordered list of reconstructed objects (§4.E). Main rows are emitted in
// their own order first; a subsheet row joins the main object sharing its
// (root id, id) identity when one exists, or is appended as its own
// standalone object when no match is found — including when its id is
// empty, per the Open Question decision that only an exact, non-empty id
// match joins a row to its main object (SPEC_FULL.md §9).
func JoinSheets(rootIDField string, mainRows []BuiltRow, subsheets []SubsheetRows, warnings *Warnings) []*JsonValue {
	var out []*JsonValue
	index := make(map[identity]int)

	for _, r := range mainRows {
		obj := r.Object
		if len(obj.Keys()) == 0 {
			continue
		}
		key := identity{rootID: identityValue(obj, rootIDField), id: identityValue(obj, "id")}
		if key.id != "" {
			if i, ok := index[key]; ok {
				mergeObjectsFields(out[i], obj, rootIDField, key.rootID, key.id, r.Sheet, warnings)
				continue
			}
		}
		index[key] = len(out)
		out = append(out, obj)
	}

	for _, sub := range subsheets {
		for _, r := range sub.Rows {
			obj := r.Object
			if len(obj.Keys()) == 0 {
				continue
			}
			key := identity{rootID: identityValue(obj, rootIDField), id: identityValue(obj, "id")}
			if key.id != "" {
				if i, ok := index[key]; ok {
					mergeObjectsFields(out[i], obj, rootIDField, key.rootID, key.id, sub.Name, warnings)
					continue
				}
			}
			index[key] = len(out)
			out = append(out, obj)
		}
	}

	return out
}

// mergeObjectsFields unions src's fields into dst in place: fields dst
// lacks are added, fields both share are merged recursively, and equal
// leaf values are left alone. A genuine mismatch at a leaf is a merge
// conflict, reported once and resolved by keeping dst's value (the
// earlier sheet wins, §4.E).
func mergeObjectsFields(dst, src *JsonValue, rootIDField, rootIDVal, idVal, sheet string, warnings *Warnings) {
	for _, key := range src.Keys() {
		srcVal := src.Get(key)
		dstVal := dst.Get(key)
		dst.Set(key, mergeValue(dstVal, srcVal, key, rootIDField, rootIDVal, idVal, sheet, warnings))
	}
}

func mergeValue(dst, src *JsonValue, field, rootIDField, rootIDVal, idVal, sheet string, warnings *Warnings) *JsonValue {
	if dst == nil {
		return src
	}
	if src == nil {
		return dst
	}
	if dst.Kind != src.Kind {
		if !dst.Equal(src) {
			reportMergeConflict(warnings, field, rootIDField, rootIDVal, idVal, sheet, dst, src)
		}
		return dst
	}
	switch dst.Kind {
	case KindObject:
		mergeObjectsFields(dst, src, rootIDField, rootIDVal, idVal, sheet, warnings)
		return dst
	case KindArray:
		return mergeArrays(dst, src, field, rootIDField, rootIDVal, idVal, sheet, warnings)
	default:
		if !dst.Equal(src) {
			reportMergeConflict(warnings, field, rootIDField, rootIDVal, idVal, sheet, dst, src)
		}
		return dst
	}
}

// mergeArrays merges two array values of the same field: if either side's
// items carry an "id" field, items are matched and merged by id (new ids
// appended after); otherwise src's items are appended after dst's
// (duplicate-as-append, §4.E).
func mergeArrays(dst, src *JsonValue, field, rootIDField, rootIDVal, idVal, sheet string, warnings *Warnings) *JsonValue {
	dstItems := dst.Array()
	srcItems := src.Array()
	if !anyHasID(dstItems) && !anyHasID(srcItems) {
		merged := make([]*JsonValue, 0, len(dstItems)+len(srcItems))
		merged = append(merged, dstItems...)
		merged = append(merged, srcItems...)
		return NewArray(merged...)
	}

	byID := make(map[string]int, len(dstItems))
	merged := append([]*JsonValue(nil), dstItems...)
	for i, item := range dstItems {
		if id := item.Get("id"); id != nil {
			byID[stringify(id)] = i
		}
	}
	for _, item := range srcItems {
		id := item.Get("id")
		if id != nil {
			if i, ok := byID[stringify(id)]; ok {
				merged[i] = mergeValue(merged[i], item, field, rootIDField, rootIDVal, idVal, sheet, warnings)
				continue
			}
		}
		merged = append(merged, item)
	}
	return NewArray(merged...)
}

func anyHasID(items []*JsonValue) bool {
	for _, item := range items {
		if item != nil && item.Kind == KindObject && item.Get("id") != nil {
			return true
		}
	}
	return false
}

func reportMergeConflict(warnings *Warnings, field, rootIDField, rootIDVal, idVal, sheet string, dst, src *JsonValue) {
	warnings.add(sheet, 0,
		`Conflict when merging field %q for %s %q, id %q in sheet %s: %q != %q`,
		field, rootIDField, rootIDVal, idVal, sheet, stringify(dst), stringify(src))
}
