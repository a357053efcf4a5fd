package flattab

// shapeDecision records what a path prefix has been committed to meaning
// within one row: a container holding named fields, a container holding
// indexed items, or a terminal value. The first column to touch a prefix
// decides it; every later column disagreeing is dropped (§4.D point 4:
// "the earlier-seen shape wins").
type shapeDecision int

const (
	shapeUnset shapeDecision = iota
	shapeObject
	shapeArray
	shapeLeaf
)

func shapeWord(d shapeDecision) string {
	switch d {
	case shapeArray:
		return "an array"
	case shapeObject:
		return "an object"
	default:
		return "a plain value"
	}
}

// arrayItems tracks one array container's items across the columns of a
// single row: an optional anonymous item, always rendered first, and
// explicit-index items in first-appearance order (§4.D point 4).
type arrayItems struct {
	anon  *JsonValue
	order []int
	items map[int]*JsonValue
}

func newArrayItems() *arrayItems {
	return &arrayItems{items: make(map[int]*JsonValue)}
}

// ensure returns the item for step, creating it as an empty object if it
// does not yet exist, and keeping the backing array's rendering in sync.
func (a *arrayItems) ensure(arr *JsonValue, step PathStep) *JsonValue {
	if step.Kind == StepAnonymousItem {
		if a.anon == nil {
			a.anon = NewObject()
		}
		a.sync(arr)
		return a.anon
	}
	item, ok := a.items[step.Index]
	if !ok {
		item = NewObject()
		a.items[step.Index] = item
		a.order = append(a.order, step.Index)
	}
	a.sync(arr)
	return item
}

// set assigns a leaf value directly at step, used when the item is itself
// a scalar rather than an object with further fields.
func (a *arrayItems) set(arr *JsonValue, step PathStep, leaf *JsonValue) {
	if step.Kind == StepAnonymousItem {
		a.anon = leaf
	} else {
		if _, ok := a.items[step.Index]; !ok {
			a.order = append(a.order, step.Index)
		}
		a.items[step.Index] = leaf
	}
	a.sync(arr)
}

func (a *arrayItems) sync(arr *JsonValue) {
	items := make([]*JsonValue, 0, len(a.order)+1)
	if a.anon != nil {
		items = append(items, a.anon)
	}
	for _, idx := range a.order {
		items = append(items, a.items[idx])
	}
	arr.arrVal = items
}

// RowBuilder folds the (Path, value) cells of one row into a JsonValue
// object tree, the Tree Builder of §4.D. Build one per row; it is not
// safe to reuse across rows, since shape decisions and array item
// identity are row-scoped.
type RowBuilder struct {
	root     *JsonValue
	shapes   map[string]shapeDecision
	arrays   map[string]*arrayItems
	warnings *Warnings
	sheet    string
	row      int
}

// NewRowBuilder starts a fresh row build. sheet and row identify the
// source row for any shape-conflict warnings it emits.
func NewRowBuilder(warnings *Warnings, sheet string, row int) *RowBuilder {
	root := NewObject()
	return &RowBuilder{
		root:     root,
		shapes:   map[string]shapeDecision{"": shapeObject},
		arrays:   make(map[string]*arrayItems),
		warnings: warnings,
		sheet:    sheet,
		row:      row,
	}
}

// Fold merges one cell into the row tree at path. leaf == nil means the
// cell was empty: per §4.D it establishes no shape and creates no array
// item, so Fold is a no-op.
func (rb *RowBuilder) Fold(path Path, leaf *JsonValue) {
	if leaf == nil || len(path) == 0 {
		return
	}
	cur := rb.root
	for i, step := range path {
		containerKey := path[:i].String()
		want := shapeObject
		if step.Kind != StepField {
			want = shapeArray
		}
		if !rb.checkAndSet(containerKey, want) {
			rb.reportConflict(path, path[:i], want)
			return
		}
		isLast := i == len(path)-1
		if isLast {
			fullKey := path.String()
			if !rb.checkAndSet(fullKey, shapeLeaf) {
				rb.reportConflict(path, path, shapeLeaf)
				return
			}
			rb.setLeaf(cur, step, path[:i], leaf)
			return
		}
		nextWantArray := path[i+1].Kind != StepField
		cur = rb.descend(cur, step, path[:i], nextWantArray)
	}
}

func (rb *RowBuilder) checkAndSet(key string, want shapeDecision) bool {
	existing, seen := rb.shapes[key]
	if !seen {
		rb.shapes[key] = want
		return true
	}
	return existing == want
}

func (rb *RowBuilder) reportConflict(column, prefix Path, want shapeDecision) {
	prefixStr := prefix.String()
	if prefixStr == "" {
		prefixStr = "the document root"
	}
	rb.warnings.add(rb.sheet, rb.row,
		"Column %s has been ignored, because it treats %s as %s, but another column does not.",
		column.String(), prefixStr, shapeWord(want))
}

// descend moves cur into the child named/indexed by step, creating an
// empty placeholder the first time a field is visited. The placeholder's
// kind is decided by what the next step in path needs, which checkAndSet
// for that next step's container is guaranteed to agree with (shape
// decisions are made in path order, so a never-before-seen containerKey
// cannot yet disagree with it).
func (rb *RowBuilder) descend(cur *JsonValue, step PathStep, containerPrefix Path, nextWantArray bool) *JsonValue {
	if step.Kind == StepField {
		child := cur.Get(step.Field)
		if child == nil {
			if nextWantArray {
				child = NewArray()
			} else {
				child = NewObject()
			}
			cur.Set(step.Field, child)
		}
		return child
	}
	arr := rb.arrayFor(cur, containerPrefix)
	return arr.state.ensure(cur, step)
}

// setLeaf assigns leaf at the terminal step of a fold.
func (rb *RowBuilder) setLeaf(cur *JsonValue, step PathStep, containerPrefix Path, leaf *JsonValue) {
	if step.Kind == StepField {
		cur.Set(step.Field, leaf)
		return
	}
	arr := rb.arrayFor(cur, containerPrefix)
	arr.state.set(cur, step, leaf)
}

type arrayHandle struct {
	state *arrayItems
}

func (rb *RowBuilder) arrayFor(arr *JsonValue, containerPrefix Path) arrayHandle {
	key := containerPrefix.String()
	st, ok := rb.arrays[key]
	if !ok {
		st = newArrayItems()
		rb.arrays[key] = st
	}
	return arrayHandle{state: st}
}

// Result returns the row's built object. It is never nil, even for a row
// that contributed no fields at all; callers decide whether an
// all-empty object should be skipped (§4.F, Open Question: rows with
// only a root id set are still emitted as a standalone object).
func (rb *RowBuilder) Result() *JsonValue {
	return rb.root
}
