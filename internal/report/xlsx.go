package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wesleyorama2/jmdash/internal/dataset"
	"github.com/wesleyorama2/jmdash/internal/render"
)

// summarySheet is the first sheet of a workbook.
const summarySheet = "Summary"

// sheetNames are the workbook sheet names of the dashboard tables. Excel limits sheet
// names to 31 characters.
var sheetNames = map[string]string{
	dataset.SectionApdex:      "APDEX",
	dataset.SectionStatistics: "Statistics",
	dataset.SectionErrors:     "Errors",
	dataset.SectionTop5Errors: "Top 5 Errors",
}

// NewWorkbook builds a workbook with a summary sheet and one sheet per table. Cells hold
// the formatted text, so the workbook shows exactly what the HTML page shows.
func NewWorkbook(data *ReportData) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	overallStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create overall style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	writeSummarySheet(f, data, headerStyle)

	for _, table := range data.Tables {
		if err := writeTableSheet(f, table, headerStyle, overallStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummarySheet(f *excelize.File, data *ReportData, headerStyle int) {
	rows := [][]interface{}{
		{"Title", data.Title},
		{"Report ID", data.ID},
		{"PASS %", data.Dashboard.RequestsSummary.OkPercent},
		{"FAIL %", data.Dashboard.RequestsSummary.KoPercent},
		{"Controllers only", data.Filters.ShowControllersOnly},
		{"Series filter", data.Filters.SeriesFilter},
		{"Filter applies to samples only", data.Filters.FiltersOnlySampleSeries},
	}
	if !data.Dashboard.TestStart.IsZero() {
		rows = append(rows, []interface{}{"Start", data.Dashboard.TestStart.Format("2006-01-02 15:04:05 MST")})
	}
	if !data.Dashboard.TestEnd.IsZero() {
		rows = append(rows, []interface{}{"End", data.Dashboard.TestEnd.Format("2006-01-02 15:04:05 MST")})
	}

	for i, row := range rows {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1])
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", i+1), fmt.Sprintf("A%d", i+1), headerStyle)
	}
	f.SetColWidth(summarySheet, "A", "A", 32)
	f.SetColWidth(summarySheet, "B", "B", 48)
}

func writeTableSheet(f *excelize.File, table *render.Table, headerStyle, overallStyle int) error {
	sheet := sheetName(table.ID)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	row := 1
	if len(table.GroupHeader) > 0 {
		col := 1
		for _, cell := range table.GroupHeader {
			start, _ := excelize.CoordinatesToCellName(col, row)
			end, _ := excelize.CoordinatesToCellName(col+cell.Span-1, row)
			f.SetCellValue(sheet, start, cell.Label)
			if cell.Span > 1 {
				if err := f.MergeCell(sheet, start, end); err != nil {
					return fmt.Errorf("failed to merge header cells: %w", err)
				}
			}
			f.SetCellStyle(sheet, start, end, headerStyle)
			col += cell.Span
		}
		row++
	}

	writeRow(f, sheet, row, table.Titles)
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(table.Titles), row)
	f.SetCellStyle(sheet, first, last, headerStyle)
	row++

	if table.Overall != nil {
		writeRow(f, sheet, row, table.Overall.Cells)
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(table.Overall.Cells), row)
		f.SetCellStyle(sheet, first, last, overallStyle)
		row++
	}

	for _, r := range table.SortedRows() {
		writeRow(f, sheet, row, r.Cells)
		row++
	}

	for i := range table.Titles {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 15)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) {
	for i, value := range cells {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, value)
	}
}

func sheetName(id string) string {
	if name, ok := sheetNames[id]; ok {
		return name
	}
	if len(id) > 31 {
		return id[:31]
	}
	return id
}

// WriteXLSX renders the report as an XLSX workbook to w.
func WriteXLSX(w io.Writer, d *dataset.Dashboard, o Options) error {
	data, err := Prepare(d, o)
	if err != nil {
		return err
	}

	f, err := NewWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel workbook: %w", err)
	}
	return nil
}

// GenerateXLSX writes the XLSX report to a file.
func GenerateXLSX(d *dataset.Dashboard, outputPath string, o Options) error {
	data, err := Prepare(d, o)
	if err != nil {
		return err
	}

	f, err := NewWorkbook(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
