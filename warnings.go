package flattab

import "fmt"

// Warning is one non-fatal finding surfaced during Unflatten or Flatten:
// a dropped column, a merge conflict, a rollup that could not be applied.
// The engine never stops processing on a Warning; it records one and
// moves on, matching flatten-tool's "never throws away a whole run over
// one bad row" posture.
type Warning struct {
	Message string
	Sheet   string
	Row     int
}

func (w Warning) String() string { return w.Message }

// Warnings accumulates Warning values in emission order.
type Warnings struct {
	items []Warning
}

func (w *Warnings) add(sheet string, row int, format string, args ...any) {
	w.items = append(w.items, Warning{
		Message: fmt.Sprintf(format, args...),
		Sheet:   sheet,
		Row:     row,
	})
}

// All returns every warning recorded so far, in emission order.
func (w *Warnings) All() []Warning {
	if w == nil {
		return nil
	}
	return w.items
}

// Len reports how many warnings have been recorded.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.items)
}
