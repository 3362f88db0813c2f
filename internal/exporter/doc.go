// Package exporter renders the full checklist table for download.
//
// CSVWriter produces semicolon-delimited UTF-8 text with a BOM so spreadsheet
// tools pick the right encoding. XLSXWriter produces a single-sheet workbook.
// Both satisfy Exporter and write the four canonical columns in order.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(exporter.DefaultWriteOptions(), logger)
//	err := w.Write(rw, ds)
package exporter

import (
	"io"

	"floorcheck/internal/dataset"
)

// Exporter renders a dataset in one download format.
type Exporter interface {
	Write(out io.Writer, ds *dataset.Dataset) error
	ContentType() string
	FileName() string
}
