// Package parquet adapts flattab's tabular sheets to an Arrow/Parquet
// sink, for callers that want a flattened sheet persisted as a columnar
// file rather than handed back as in-memory rows.
package parquet

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/flattab/flattab"
)

const defaultRowGroupByteLimit = 10 * 1024 * 1024

// DefaultWriterProperties mirrors the teacher's defaults: dictionary
// encoding, the latest Parquet format version, zstd compression, and
// column statistics.
var DefaultWriterProperties = parquet.NewWriterProperties(
	parquet.WithDictionaryDefault(true),
	parquet.WithVersion(parquet.V2_LATEST),
	parquet.WithCompression(compress.Codecs.Zstd),
	parquet.WithStats(true),
	parquet.WithRootName("flattab"),
)

// Writer writes one flattab sheet's rows to a Parquet file, one sheet per
// file: a sheet's column set (and therefore its Arrow schema) is fixed
// once inferred from its own rows, since a sheet's columns don't vary row
// to row the way a schema-less JSON document's fields might.
type Writer struct {
	destFile *os.File
	pqwrt    *pqarrow.FileWriter
	columns  []string
	sc       *arrow.Schema
	count    int
}

// NewWriter infers an Arrow schema from sheet's rows (first-seen column
// order, typed by each column's first non-nil cell) and opens path for
// writing.
func NewWriter(sheet flattab.SheetData, path string, wrtp *parquet.WriterProperties) (*Writer, error) {
	if wrtp == nil {
		wrtp = DefaultWriterProperties
	}
	columns, sc := inferSchema(sheet)

	destFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	artp := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	pqwrt, err := pqarrow.NewFileWriter(sc, destFile, wrtp, artp)
	if err != nil {
		destFile.Close()
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	return &Writer{destFile: destFile, pqwrt: pqwrt, columns: columns, sc: sc}, nil
}

// WriteSheet writes every row of sheet, in order. Columns absent from a
// given row are written as null.
func (w *Writer) WriteSheet(sheet flattab.SheetData) error {
	for _, row := range sheet.Rows {
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteRow writes a single row, built against the Writer's fixed column
// set.
func (w *Writer) WriteRow(row flattab.Row) error {
	obj := flattab.NewObject()
	byName := make(map[string]*flattab.JsonValue, len(row))
	for _, col := range row {
		byName[col.Name] = col.Value
	}
	for _, name := range w.columns {
		v := byName[name]
		if v == nil {
			v = flattab.NewNull()
		}
		obj.Set(name, v)
	}

	jsonData, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	recbld := array.NewRecordBuilder(memory.DefaultAllocator, w.sc)
	defer recbld.Release()
	if err := recbld.UnmarshalJSON(jsonData); err != nil {
		return fmt.Errorf("failed to unmarshal row: %w", err)
	}

	rec := recbld.NewRecord()
	defer rec.Release()
	if err := w.pqwrt.WriteBuffered(rec); err != nil {
		return fmt.Errorf("failed to write to parquet: %w", err)
	}
	if w.pqwrt.RowGroupTotalBytesWritten() >= defaultRowGroupByteLimit {
		w.pqwrt.NewBufferedRowGroup()
	}
	w.count++
	return nil
}

// RecordCount returns the total number of rows written.
func (w *Writer) RecordCount() int { return w.count }

// Close closes the underlying Parquet file writer and destination file.
func (w *Writer) Close() error {
	if err := w.pqwrt.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return w.destFile.Close()
}

func inferSchema(sheet flattab.SheetData) ([]string, *arrow.Schema) {
	var columns []string
	seen := make(map[string]bool)
	kinds := make(map[string]flattab.Kind)

	for _, row := range sheet.Rows {
		for _, col := range row {
			if !seen[col.Name] {
				seen[col.Name] = true
				columns = append(columns, col.Name)
			}
			if col.Value != nil && col.Value.Kind != flattab.KindNull {
				if _, ok := kinds[col.Name]; !ok {
					kinds[col.Name] = col.Value.Kind
				}
			}
		}
	}

	fields := make([]arrow.Field, len(columns))
	for i, name := range columns {
		fields[i] = arrow.Field{Name: name, Type: arrowType(kinds[name]), Nullable: true}
	}
	return columns, arrow.NewSchema(fields, nil)
}

func arrowType(k flattab.Kind) arrow.DataType {
	switch k {
	case flattab.KindInteger:
		return arrow.PrimitiveTypes.Int64
	case flattab.KindNumber:
		return arrow.PrimitiveTypes.Float64
	case flattab.KindBool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}
