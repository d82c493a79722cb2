package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

const xlsxSheet = "Contests"

// xlsxWidths are column widths for csvHeader, in characters
var xlsxWidths = []float64{14, 50, 24, 28, 12, 22, 60}

// WriteXLSX writes records as an Excel workbook with one sheet, one row per record
func WriteXLSX(w io.Writer, records []*contest.Record) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, name := range csvHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	if err := f.SetRowStyle(xlsxSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}

	for i, width := range xlsxWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("writing XLSX: %w", err)
		}
		if err := f.SetColWidth(xlsxSheet, col, col, width); err != nil {
			return fmt.Errorf("writing XLSX: %w", err)
		}
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("writing XLSX: %w", err)
		}
		row := []interface{}{
			rec.ID,
			rec.Title,
			rec.Host,
			rec.Period,
			deadlineString(rec),
			rec.Prize,
			rec.Link,
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("writing XLSX: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	return nil
}
