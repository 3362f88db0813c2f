package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"floorcheck/internal/dataset"
)

const (
	// XLSXFileName is the download name of the spreadsheet export.
	XLSXFileName = "tabela_completa.xlsx"

	sheetName = "Checklist"
)

// XLSXWriter renders datasets as an Excel workbook with one sheet.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook exporter.
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_exporter"))}
}

// ContentType returns the MIME type of the output.
func (w *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName returns the suggested download name.
func (w *XLSXWriter) FileName() string {
	return XLSXFileName
}

// Write renders ds as a workbook to out. Dates are written as text in DD/MM/YYYY.
func (w *XLSXWriter) Write(out io.Writer, ds *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{
		dataset.HeaderDate, dataset.HeaderFloor, dataset.HeaderPosition, dataset.HeaderObservation,
	}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range ds.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "D", 24); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to path, creating parent directories.
func (w *XLSXWriter) WriteFile(path string, ds *dataset.Dataset) error {
	return writeFile(path, w.logger, func(f io.Writer) error { return w.Write(f, ds) }, ds.Len())
}
