package flattab

// Unflatten reconstructs a JSON document — an array of objects — from a
// set of tabular sheets, the Unflatten Orchestrator of §4.F. For each
// column it first rewrites a rolled-up "field[]/sub" name back to a plain
// path when rollup is enabled (§4.H), then lexes the name (fieldname or
// title mode, per WithConvertTitles), coerces the cell against the schema
// and folds the row's cells into a tree (§4.D); finally it joins main and
// subsheet rows by identity (§4.E).
func Unflatten(sheets Sheets, opts ...Option) ([]*JsonValue, *Warnings, error) {
	cfg := newConfig(opts)
	warnings := &Warnings{}

	if len(sheets) == 0 {
		return nil, warnings, ErrNoSheets
	}
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	mainName, err := ChooseMainSheet(names)
	if err != nil {
		return nil, warnings, err
	}

	var mainRows []BuiltRow
	var subsheets []SubsheetRows
	for _, sheet := range sheets {
		rows := buildSheetRows(sheet, cfg, warnings)
		if sheet.Name == mainName {
			mainRows = rows
		} else {
			subsheets = append(subsheets, SubsheetRows{Name: sheet.Name, Rows: rows})
		}
	}

	objects := JoinSheets(cfg.rootID, mainRows, subsheets, warnings)
	return objects, warnings, nil
}

func buildSheetRows(sheet SheetData, cfg *Config, warnings *Warnings) []BuiltRow {
	rows := make([]BuiltRow, 0, len(sheet.Rows))
	for rowNum, row := range sheet.Rows {
		rb := NewRowBuilder(warnings, sheet.Name, rowNum)
		for _, col := range row {
			foldColumn(rb, col, cfg)
		}
		rows = append(rows, BuiltRow{Object: rb.Result(), Sheet: sheet.Name, Row: rowNum})
	}
	return rows
}

func foldColumn(rb *RowBuilder, col Column, cfg *Config) {
	name := col.Name
	if cfg.rollup {
		if rewritten, ok := RewriteRollupColumn(name); ok {
			name = rewritten
		}
	}
	path, err := lexColumn(name, cfg)
	if err != nil {
		return
	}
	if cfg.schema.IsStringArray(path) {
		rb.Fold(path, CoerceStringArray(col.Value))
		return
	}
	path = cfg.schema.InsertImplicitArrayStep(path)
	declared := cfg.schema.LeafType(path)
	rb.Fold(path, CoerceLeaf(col.Value, declared))
}

func lexColumn(name string, cfg *Config) (Path, error) {
	if cfg.convertTitles {
		return LexTitlePath(name, cfg.schema)
	}
	return LexFieldPath(name)
}
