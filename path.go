package flattab

import (
	"fmt"
	"strconv"
	"strings"
)

// StepKind tags a PathStep. AnonymousItem is distinguished from Index only
// after schema resolution: a column like "testR/id" under an array field
// declared by the schema implies an anonymous item step, which the lexer
// cannot see on its own.
type StepKind int

const (
	StepField StepKind = iota
	StepIndex
	StepAnonymousItem
)

// PathStep is one segment of a Path: a field name, an explicit array
// index, or an anonymous array item (an implicit or negatively-indexed
// array position).
type PathStep struct {
	Kind  StepKind
	Field string
	Index int
}

func FieldStep(name string) PathStep    { return PathStep{Kind: StepField, Field: name} }
func IndexStep(n int) PathStep          { return PathStep{Kind: StepIndex, Index: n} }
func AnonymousItemStep(key int) PathStep {
	return PathStep{Kind: StepAnonymousItem, Index: key}
}

func (s PathStep) String() string {
	switch s.Kind {
	case StepField:
		return s.Field
	case StepIndex:
		return strconv.Itoa(s.Index)
	case StepAnonymousItem:
		return ""
	default:
		return "?"
	}
}

// Path is an ordered sequence of PathSteps. Its canonical string form uses
// "/" between steps, decimal integers for Index, and no marker for an
// AnonymousItem.
type Path []PathStep

func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, s := range p {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "/")
}

// Prefix returns the path truncated to its first n steps.
func (p Path) Prefix(n int) Path {
	if n > len(p) {
		n = len(p)
	}
	return p[:n]
}

var integerStep = func(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// splitColumn tokenises a column name on sep, rejecting empty columns.
func splitColumn(column string, sep byte) ([]string, error) {
	if column == "" {
		return nil, ErrEmptyColumn
	}
	return strings.Split(column, string(sep)), nil
}

// LexFieldPath parses a "/"-separated fieldname-mode column name into a
// Path. A step that parses as a decimal integer becomes an Index when it
// is non-negative and an AnonymousItem step when it is negative (the Tree
// Builder merges all anonymous steps of one array into a single item, see
// treebuilder.go); anything else is a Field.
func LexFieldPath(column string) (Path, error) {
	raw, err := splitColumn(column, '/')
	if err != nil {
		return nil, err
	}
	path := make(Path, 0, len(raw))
	for _, step := range raw {
		if step == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadColumnStep, column)
		}
		if n, ok := integerStep(step); ok {
			if n < 0 {
				path = append(path, AnonymousItemStep(n))
			} else {
				path = append(path, IndexStep(n))
			}
			continue
		}
		path = append(path, FieldStep(step))
	}
	return path, nil
}

// normalizeTitle lowercases and collapses whitespace, making title lookups
// space- and case-insensitive as required by §3/§4.A.
func normalizeTitle(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	return strings.Join(fields, " ")
}

// LexTitlePath parses a ":"-separated title-mode column name into a Path,
// resolving each step against idx's TitleIndex in the context of the
// schema node reached so far. A step that fails to resolve passes through
// unchanged as a Field (titles are advisory, never strict — §7).
func LexTitlePath(column string, idx *SchemaIndex) (Path, error) {
	raw, err := splitColumn(column, ':')
	if err != nil {
		return nil, err
	}
	path := make(Path, 0, len(raw))
	var node *schemaNode
	if idx != nil {
		node = idx.root
	}
	for _, step := range raw {
		if step == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadColumnStep, column)
		}
		if n, ok := integerStep(step); ok {
			if n < 0 {
				path = append(path, AnonymousItemStep(n))
			} else {
				path = append(path, IndexStep(n))
			}
			if node != nil {
				node = node.itemNode()
			}
			continue
		}
		field, resolved := step, false
		if node != nil {
			field, resolved = idx.titleToField(node, step)
		}
		path = append(path, FieldStep(field))
		if resolved && node != nil {
			node = node.child(field)
		} else {
			node = nil
		}
	}
	return path, nil
}
