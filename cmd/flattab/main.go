// Command flattab unflattens a JSON array of tabular sheets read from
// stdin back into a JSON document, printing any warnings to stderr.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/flattab/flattab"
)

// Stdin is expected to hold a JSON array of
// {"name": "...", "rows": [{"column": value, ...}, ...]} sheet objects.
func main() {
	rootID := flag.String("root-id", flattab.RootIDDefault, "root id field name, empty for none")
	titles := flag.Bool("titles", false, "treat column names as schema titles instead of field names")
	rollup := flag.Bool("rollup", false, "apply rollup projection/merge")
	flag.Parse()

	doc, err := flattab.DecodeJSON(os.Stdin)
	if err != nil {
		log.Fatalf("flattab: reading sheets: %v", err)
	}
	sheets, err := toSheets(doc)
	if err != nil {
		log.Fatalf("flattab: %v", err)
	}

	opts := []flattab.Option{
		flattab.WithRootID(*rootID),
		flattab.WithConvertTitles(*titles),
		flattab.WithRollup(*rollup),
	}
	objects, warnings, err := flattab.Unflatten(sheets, opts...)
	if err != nil {
		log.Fatalf("flattab: %v", err)
	}

	for _, w := range warnings.All() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	out := flattab.NewArray(objects...)
	b, err := out.MarshalJSON()
	if err != nil {
		log.Fatalf("flattab: encoding result: %v", err)
	}
	os.Stdout.Write(b)
	fmt.Fprintln(os.Stdout)
}

func toSheets(doc *flattab.JsonValue) (flattab.Sheets, error) {
	if doc == nil || doc.Kind != flattab.KindArray {
		return nil, fmt.Errorf("expected a JSON array of sheets")
	}
	var sheets flattab.Sheets
	for _, item := range doc.Array() {
		name := item.Get("name")
		rows := item.Get("rows")
		if name == nil || rows == nil || rows.Kind != flattab.KindArray {
			return nil, fmt.Errorf("each sheet needs a name and a rows array")
		}
		sheet := flattab.SheetData{Name: name.Str()}
		for _, rawRow := range rows.Array() {
			if rawRow == nil || rawRow.Kind != flattab.KindObject {
				continue
			}
			var row flattab.Row
			for _, col := range rawRow.Keys() {
				row = append(row, flattab.Column{Name: col, Value: rawRow.Get(col)})
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}
