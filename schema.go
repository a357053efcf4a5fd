package flattab

import (
	"fmt"
)

// NodeType is the JSON Schema "type" a schemaNode declares.
type NodeType int

const (
	TypeUnknown NodeType = iota
	TypeObject
	TypeArray
	TypeString
	TypeInteger
	TypeNumber
	TypeBoolean
)

func nodeTypeFromString(s string) NodeType {
	switch s {
	case "object":
		return TypeObject
	case "array":
		return TypeArray
	case "string":
		return TypeString
	case "integer":
		return TypeInteger
	case "number":
		return TypeNumber
	case "boolean":
		return TypeBoolean
	default:
		return TypeUnknown
	}
}

// schemaNode is one node of the schema tree, built the way the teacher's
// fieldPos tree is built from a map[string]any: a parent pointer, an
// ordered list of children (schema declaration order matters for
// canonicalColumns/rollup), and a childmap for O(1) lookup by name.
type schemaNode struct {
	parent   *schemaNode
	name     string
	typ      NodeType
	title    string
	order    []string
	children map[string]*schemaNode
	items    *schemaNode
	rollup   map[string]bool
}

func newSchemaNode(parent *schemaNode, name string) *schemaNode {
	return &schemaNode{
		parent:   parent,
		name:     name,
		children: make(map[string]*schemaNode),
	}
}

func (n *schemaNode) child(name string) *schemaNode {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// itemNode returns the node describing this array's items, or the
// receiver itself if it is not an array (so callers can chain through a
// non-array node without special-casing it).
func (n *schemaNode) itemNode() *schemaNode {
	if n == nil {
		return nil
	}
	if n.typ == TypeArray {
		return n.items
	}
	return n
}

// titleKey is the (parent node, normalized title) composite key the
// TitleIndex is built over, per §3 TitleIndex.
type titleKey struct {
	parent *schemaNode
	title  string
}

// SchemaIndex answers schema-aware questions about a path: its declared
// type, whether it is an array (and of what), its rollup fields, and the
// canonical field name for a human-readable title. A nil *SchemaIndex is
// valid and means "no schema was supplied" — every question answers
// Unknown/false and every title passes through unresolved, matching §7's
// "schemas are advisory, not strict" stance.
type SchemaIndex struct {
	root     *schemaNode
	rootID   string
	titles   map[titleKey]string
	rollup   bool
}

// NewSchemaIndex builds a SchemaIndex from a decoded JSON Schema document
// (as produced by input.Map) and the configured root id field name. doc
// may be nil, in which case resolution always reports Unknown.
func NewSchemaIndex(doc map[string]any, rootID string, rollup bool) (*SchemaIndex, error) {
	idx := &SchemaIndex{rootID: rootID, titles: make(map[titleKey]string), rollup: rollup}
	if doc == nil {
		return idx, nil
	}
	root := newSchemaNode(nil, "")
	root.typ = TypeObject
	if err := buildObjectNode(root, doc, idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	idx.root = root
	return idx, nil
}

func buildObjectNode(node *schemaNode, doc map[string]any, idx *SchemaIndex) error {
	props, _ := doc["properties"].(map[string]any)
	for name, raw := range props {
		if _, ok := raw.(map[string]any); !ok {
			continue
		}
		node.order = append(node.order, name)
	}
	// properties is itself an unordered map[string]any once decoded from
	// JSON via the generic input boundary; declaration order is instead
	// recovered from an optional "propertyOrder" hint, falling back to
	// whatever order the map iterates in. Callers that need a stable
	// canonical order should supply propertyOrder explicitly.
	if order, ok := doc["propertyOrder"].([]any); ok {
		node.order = node.order[:0]
		for _, o := range order {
			if s, ok := o.(string); ok {
				node.order = append(node.order, s)
			}
		}
	}
	for _, name := range node.order {
		raw, ok := props[name]
		if !ok {
			continue
		}
		sub, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		child, err := buildNode(node, name, sub, idx)
		if err != nil {
			return err
		}
		node.children[name] = child
		if child.title != "" {
			idx.titles[titleKey{parent: node, title: normalizeTitle(child.title)}] = name
		}
	}
	return nil
}

func buildNode(parent *schemaNode, name string, doc map[string]any, idx *SchemaIndex) (*schemaNode, error) {
	node := newSchemaNode(parent, name)
	if t, ok := doc["type"].(string); ok {
		node.typ = nodeTypeFromString(t)
	}
	if title, ok := doc["title"].(string); ok {
		node.title = title
	}
	switch node.typ {
	case TypeObject:
		if err := buildObjectNode(node, doc, idx); err != nil {
			return nil, err
		}
	case TypeArray:
		itemsDoc, _ := doc["items"].(map[string]any)
		if itemsDoc == nil {
			itemsDoc = map[string]any{}
		}
		items, err := buildNode(node, name+"[]", itemsDoc, idx)
		if err != nil {
			return nil, err
		}
		node.items = items
		if rollUp, ok := doc["rollUp"].([]any); ok {
			node.rollup = make(map[string]bool, len(rollUp))
			for _, f := range rollUp {
				if s, ok := f.(string); ok {
					node.rollup[s] = true
				}
			}
		}
	}
	return node, nil
}

// resolvePath walks path against the schema tree, returning the node it
// reaches (nil, false if any step is not declared).
func (idx *SchemaIndex) resolvePath(path Path) (*schemaNode, bool) {
	if idx == nil || idx.root == nil {
		return nil, false
	}
	node := idx.root
	for _, step := range path {
		switch step.Kind {
		case StepField:
			node = node.child(step.Field)
		case StepIndex, StepAnonymousItem:
			node = node.itemNode()
		}
		if node == nil {
			return nil, false
		}
	}
	return node, true
}

// IsArray reports whether path resolves to a schema node of type array.
func (idx *SchemaIndex) IsArray(path Path) bool {
	node, ok := idx.resolvePath(path)
	return ok && node.typ == TypeArray
}

// IsStringArray reports whether path is an array whose items are scalar
// strings, serialised as a single ';'-delimited cell rather than a
// subsheet (§4.B).
func (idx *SchemaIndex) IsStringArray(path Path) bool {
	node, ok := idx.resolvePath(path)
	return ok && node.typ == TypeArray && node.items != nil && node.items.typ == TypeString
}

// ItemType returns the declared item schema node for an array path.
func (idx *SchemaIndex) ItemType(path Path) (*schemaNode, bool) {
	node, ok := idx.resolvePath(path)
	if !ok || node.typ != TypeArray {
		return nil, false
	}
	return node.items, true
}

// LeafType returns the declared type at path, or TypeUnknown if the path
// is not declared by the schema.
func (idx *SchemaIndex) LeafType(path Path) NodeType {
	node, ok := idx.resolvePath(path)
	if !ok {
		return TypeUnknown
	}
	return node.typ
}

// RollupFields returns the set of field names carried down from the
// array node's rollUp declaration at path, or nil if rollup was not
// enabled on this index (WithRollup(false), the default).
func (idx *SchemaIndex) RollupFields(path Path) map[string]bool {
	if idx == nil || !idx.rollup {
		return nil
	}
	node, ok := idx.resolvePath(path)
	if !ok || node.typ != TypeArray {
		return nil
	}
	return node.rollup
}

// titleToField reverse-resolves a normalised title against the children
// of parent (nil means the schema root). Unresolved titles pass through
// as a literal Field step, per §4.A / §7.
func (idx *SchemaIndex) titleToField(parent *schemaNode, title string) (field string, resolved bool) {
	if idx == nil {
		return title, false
	}
	if parent == nil {
		parent = idx.root
	}
	key := titleKey{parent: parent, title: normalizeTitle(title)}
	if name, ok := idx.titles[key]; ok {
		return name, true
	}
	return title, false
}

// CanonicalColumns returns the declared property names of the node at
// path in the node's recorded order, used when projecting rollup columns.
// That order is the schema's "propertyOrder" list when it has one;
// otherwise it is the iteration order of the decoded properties map, which
// does not follow the schema text and can differ between runs.
func (idx *SchemaIndex) CanonicalColumns(path Path) []string {
	node, ok := idx.resolvePath(path)
	if !ok {
		return nil
	}
	if node.typ == TypeArray && node.items != nil {
		node = node.items
	}
	return append([]string(nil), node.order...)
}

// InsertImplicitArrayStep rewrites path so that a Field step resolving to
// a schema-declared array, not already followed by an Index or
// AnonymousItem step, gains an implicit AnonymousItem step — this is how
// a column like "testR/id" is understood as the array field testR's
// single anonymous item's id, per §4.D/§4.F.
func (idx *SchemaIndex) InsertImplicitArrayStep(path Path) Path {
	if idx == nil || idx.root == nil {
		return path
	}
	out := make(Path, 0, len(path)+1)
	node := idx.root
	for i, step := range path {
		out = append(out, step)
		switch step.Kind {
		case StepField:
			child := node.child(step.Field)
			if child != nil && child.typ == TypeArray {
				nextIsIndex := i+1 < len(path) && (path[i+1].Kind == StepIndex || path[i+1].Kind == StepAnonymousItem)
				if !nextIsIndex {
					out = append(out, AnonymousItemStep(0))
					child = child.itemNode()
				}
			}
			node = child
		case StepIndex, StepAnonymousItem:
			node = node.itemNode()
		}
		if node == nil {
			// Path runs off the declared schema; pass the remainder
			// through unchanged.
			out = append(out, path[i+1:]...)
			return out
		}
	}
	return out
}
