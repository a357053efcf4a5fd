/*
Package flattab converts between hierarchical JSON documents and flat
tabular sheets (row/column data as found in spreadsheets and CSV files),
optionally guided by a JSON Schema-like document.

Two directions are provided:

  - Unflatten takes one or more sheets of key-indexed rows, whose column
    names are dotted/slashed paths (e.g. "testO/testB", "testL/0/id"), and
    reconstructs the nested JSON objects they describe, joining subsheets
    back onto a main sheet by a shared identity.

  - Flatten takes a nested JSON document and walks it into a main sheet
    plus one subsheet per array-valued field, emitting path-encoded column
    names and back-reference columns that make the output re-unflattenable.

Both directions share a schema-aware path resolver (SchemaIndex) that
turns human-readable titles into canonical field names, infers array vs.
object shape at each path step, and implements rollup: surfacing a small
subset of subsheet columns back onto the main sheet when an array holds
exactly one item.

flattab does not read or write physical spreadsheet files, validate JSON
against a schema, or handle documents that do not fit in memory; it
expects its caller to supply rows (or a JSON document) already loaded, and
a sink to consume its output. See the input and sink/parquet
subpackages for example boundary adapters.
*/
package flattab
