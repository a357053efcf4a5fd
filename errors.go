package flattab

import "errors"

// Configuration and structural errors, fatal to the current transform.
var (
	ErrNoSheets          = errors.New("no sheets supplied")
	ErrNoMainSheet       = errors.New("could not identify a main sheet")
	ErrAmbiguousMainSheet = errors.New("more than one sheet matches *_main and no single sheet was supplied")
	ErrEmptyColumn       = errors.New("column name is empty")
	ErrBadColumnStep     = errors.New("column step is neither a field name nor an integer")
	ErrNilDocument       = errors.New("nil JSON document")
	ErrRootNotArray      = errors.New("flatten root does not resolve to an array of objects")
	ErrMalformedSchema   = errors.New("malformed schema document")
)