package flattab

import "github.com/flattab/flattab/input"

// Column is one (name, value) pair within a Row, in the order the caller
// supplied it — order matters because shape-conflict detection in the
// Tree Builder is order-sensitive (§4.D: "the earlier-seen shape wins").
type Column struct {
	Name  string
	Value *JsonValue
}

// Row is an ordered sequence of (Path, Cell) pairs, identified here
// pre-lexing by column name; LexFieldPath/LexTitlePath turn Name into a
// Path during orchestration.
type Row []Column

// SheetData is one sheet: a name and its ordered rows. The only sheet, or
// else the single sheet named "main" or "*_main", is the main sheet
// (§4.E); all others are subsheets, joined in the order given. When more
// than one sheet matches, no main sheet is chosen and Unflatten returns
// ErrAmbiguousMainSheet (see ChooseMainSheet).
type SheetData struct {
	Name string
	Rows []Row
}

// Sheets is an ordered collection of sheets, preserving the order in
// which the caller wants them joined (§4.E: "Processes sheets in input
// order").
type Sheets []SheetData

// RootIDDefault is the default root id field name, the OCDS convention of
// tying every sheet's rows back to one contract/release identifier.
const RootIDDefault = "ocid"

// StringArrayDelimiter separates items of a string-array leaf in a single
// cell. It has no escape mechanism: values containing the delimiter
// itself cannot round-trip (§9 Design Notes, known lossy case).
const StringArrayDelimiter = ';'

// Config holds the options shared by Unflatten and Flatten. Build one
// with the With* functions below, mirroring the teacher's functional
// option pattern (option.go).
type Config struct {
	rootID        string
	convertTitles bool
	rollup        bool
	schema        *SchemaIndex
	rootListPath  string
}

// Option configures a Config.
type Option func(*Config)

func newConfig(opts []Option) *Config {
	cfg := &Config{rootID: RootIDDefault}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.schema == nil {
		idx, _ := NewSchemaIndex(nil, cfg.rootID, cfg.rollup)
		cfg.schema = idx
	}
	return cfg
}

// WithRootID sets the root id field name. An empty string means "no root
// id" — every sheet's rows are then identified by id alone.
func WithRootID(name string) Option {
	return func(cfg *Config) { cfg.rootID = name }
}

// WithConvertTitles makes column names be resolved as schema titles
// (":"-separated) instead of field names ("/"-separated) before lexing.
//
// Root-id semantics under title mode are flagged broken upstream (the
// originating project skips its own tests whenever a non-empty root id is
// combined with title conversion — see SPEC_FULL.md §9 Open Questions).
// flattab mirrors that by not special-casing it: prefer fieldname mode
// when both a non-empty root id and title conversion are wanted.
func WithConvertTitles(enabled bool) Option {
	return func(cfg *Config) { cfg.convertTitles = enabled }
}

// WithRollup enables the Rollup Engine (§4.H) for Unflatten, which then
// rewrites "field[]/sub" rollup columns back to plain paths. Flatten
// projects rollUp-listed fields of single-item arrays onto the main sheet
// when the attached SchemaIndex was built with rollup enabled
// (NewSchemaIndex's rollup argument; WithSchemaDocument and the default
// empty index take it from this option as set when they are built).
func WithRollup(enabled bool) Option {
	return func(cfg *Config) { cfg.rollup = enabled }
}

// WithSchema attaches a pre-built SchemaIndex. Use NewSchemaIndex to build
// one from a decoded JSON Schema document.
func WithSchema(idx *SchemaIndex) Option {
	return func(cfg *Config) { cfg.schema = idx }
}

// WithSchemaDocument builds and attaches a SchemaIndex from a schema
// document in one step. a goes through input.Map first, so it may be an
// already-decoded map[string]any, raw JSON ([]byte or string), or any
// other mapstructure-decodable value — the same boundary bodkin's
// reader.InputMap gives its own schema-adjacent inputs.
func WithSchemaDocument(a any) Option {
	return func(cfg *Config) {
		// The index is built here, with cfg.rootID and cfg.rollup as they
		// stand when this option runs. A WithRollup(true) placed after
		// WithSchemaDocument does not reach the index, whose RollupFields
		// then reports no fields, so Flatten projects no rollup columns.
		doc, err := input.Map(a)
		if err != nil {
			return
		}
		idx, err := NewSchemaIndex(doc, cfg.rootID, cfg.rollup)
		if err == nil {
			cfg.schema = idx
		}
	}
}

// WithRootListPath sets a "/"-separated path into the flatten root object at
// which the array of records is found, for documents that do not
// themselves start as an array of records (§4 expansion, grounded on
// flatten-tool's root_list_path).
func WithRootListPath(path string) Option {
	return func(cfg *Config) { cfg.rootListPath = path }
}
