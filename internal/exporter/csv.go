package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"floorcheck/internal/dataset"
)

// CSVFileName is the download name of the full table export.
const CSVFileName = "tabela_completa.csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Delimiter rune
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// DefaultWriteOptions matches the layout of the source checklist file.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Delimiter: dataset.DefaultDelimiter, BOMPrefix: true}
}

// CSVWriter renders datasets as delimited text.
type CSVWriter struct {
	options WriteOptions
	logger  *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(options WriteOptions, logger *slog.Logger) *CSVWriter {
	if options.Delimiter == 0 {
		options.Delimiter = dataset.DefaultDelimiter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{options: options, logger: logger.With(slog.String("component", "csv_exporter"))}
}

// ContentType returns the MIME type of the output.
func (w *CSVWriter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// FileName returns the suggested download name.
func (w *CSVWriter) FileName() string {
	return CSVFileName
}

// Write renders the canonical header and every row of ds to out.
func (w *CSVWriter) Write(out io.Writer, ds *dataset.Dataset) error {
	if w.options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = w.options.Delimiter

	if err := writer.Write(ds.Headers()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range ds.Rows() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the export to path, creating parent directories.
func (w *CSVWriter) WriteFile(path string, ds *dataset.Dataset) error {
	return writeFile(path, w.logger, func(f io.Writer) error { return w.Write(f, ds) }, ds.Len())
}

// writeFile ensures the directory exists and streams render into a fresh file.
func writeFile(path string, logger *slog.Logger, render func(io.Writer) error, rows int) error {
	logger.Info("Writing export file",
		slog.String("path", path),
		slog.Int("record_count", rows))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
