package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Table is a header row plus data rows ready for export.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]any
}

// DailyTable lays out daily summaries for export.
func DailyTable(days []DailySummary) Table {
	t := Table{
		Sheet:   "Daily Sales",
		Headers: []string{"date", "total_sales", "total_quantity", "total_gst", "transaction_count"},
	}
	for _, d := range days {
		t.Rows = append(t.Rows, []any{d.Date, d.TotalSales.StringFixed(2), d.TotalQuantity, d.TotalGST.StringFixed(2), d.TransactionCount})
	}
	return t
}

// ProductTable lays out product summaries for export.
func ProductTable(products []ProductSummary) Table {
	t := Table{
		Sheet:   "Product Sales",
		Headers: []string{"product_name", "total_quantity", "total_revenue"},
	}
	for _, p := range products {
		t.Rows = append(t.Rows, []any{p.ProductName, p.TotalQuantity, p.TotalRevenue.StringFixed(2)})
	}
	return t
}

// WriteCSV writes t as CSV with a header row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = fmt.Sprint(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes t as a single-sheet workbook.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}
	for col, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
