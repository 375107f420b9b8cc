// Package model holds the data types shared across the anomaly pipeline.
package model

// TableFormat tags how a RawTable was encoded on disk.
type TableFormat string

const (
	// FormatTabular covers delimited files with a header row (CSV, XLSX).
	FormatTabular TableFormat = "tabular"
	// FormatHierarchical covers object/array files of row-objects (JSON).
	FormatHierarchical TableFormat = "hierarchical"
)

// Row is one record of an input table: column name to untyped scalar.
type Row map[string]any

// RawTable is an ordered sequence of rows read from one detector output
// file. It is immutable once loaded.
type RawTable struct {
	Source  string      `json:"source"`
	Format  TableFormat `json:"format"`
	Columns []string    `json:"columns"`
	Rows    []Row       `json:"rows"`
}
