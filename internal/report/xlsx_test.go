package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/stockops/stockorders/internal/domain"
)

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func salesWorkbook(t *testing.T, dir string) string {
	t.Helper()
	// Four banner rows, then months over metrics. The month cells mimic
	// merged headers: only the first cell of each span carries the label.
	return writeWorkbook(t, dir, "Sales by Product Details Report.xlsx", [][]interface{}{
		{"Sales by Product Details Report"},
		{"Aug 2026"},
		{},
		{},
		{"SKU", "Jul 2026", "", "", "", "Aug 2026", "", "", ""},
		{"", "Sale", "Quantity", "COGS", "Profit", "Sale", "Quantity", "COGS", "Profit"},
		{"100", 1000, 10, 700, 300, 2000, 20, 1400, 600},
		{"200", 50, 1, 40, 10, 0, 0, 0, 0},
	})
}

func TestParseSalesWorkbookSplitsMetrics(t *testing.T) {
	sales, err := ParseSalesWorkbook(salesWorkbook(t, t.TempDir()))
	if err != nil {
		t.Fatalf("ParseSalesWorkbook: %v", err)
	}

	for _, metric := range salesMetrics {
		if sales[metric] == nil {
			t.Fatalf("metric %s missing", metric)
		}
	}

	qty := sales[domain.MetricQuantity]
	if qty.SKUHeader != "SKU" {
		t.Errorf("SKUHeader = %q, want SKU", qty.SKUHeader)
	}
	wantCols := []string{"Jul 2026", "Aug 2026"}
	if len(qty.Columns) != 2 || qty.Columns[0] != wantCols[0] || qty.Columns[1] != wantCols[1] {
		t.Errorf("Columns = %v, want %v", qty.Columns, wantCols)
	}
	if len(qty.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(qty.Rows))
	}
	if qty.Rows[0].SKU != "100" || qty.Rows[0].Values[0] != 10 || qty.Rows[0].Values[1] != 20 {
		t.Errorf("quantity row = %+v", qty.Rows[0])
	}

	profit := sales[domain.MetricProfit]
	if profit.Rows[0].Values[0] != 300 || profit.Rows[0].Values[1] != 600 {
		t.Errorf("profit row = %+v", profit.Rows[0])
	}
}

func TestParseSalesWorkbookTooShort(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "Sales by Product Details Report.xlsx", [][]interface{}{
		{"Sales by Product Details Report"},
		{"empty export"},
	})
	if _, err := ParseSalesWorkbook(path); err == nil {
		t.Error("expected an error for a truncated workbook")
	}
}

func TestParseBOMWorkbook(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "BOM Component Availability Report.xlsx", [][]interface{}{
		{"BOM Component Availability"},
		{"Generated 2026-08-01"},
		{"Product SKU", "Product", "Component SKU", "Component", "Quantity"},
		{"100", "Widget", "900", "Frame", 2},
		{"100", "Widget", "901", "Barrel", 1},
	})

	bom, err := ParseBOMWorkbook(path)
	if err != nil {
		t.Fatalf("ParseBOMWorkbook: %v", err)
	}
	if len(bom.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(bom.Lines))
	}
	line := bom.Lines[0]
	if line.ProductSKU != "100" || line.ComponentSKU != "900" || line.Quantity != 2 {
		t.Errorf("line = %+v", line)
	}
	for _, col := range []string{domain.ColBOMProductSKU, domain.ColBOMComponentSKU, domain.ColBOMQuantity} {
		if !bom.Columns.Has(col) {
			t.Errorf("column %s not recorded", col)
		}
	}
}

func TestParseBOMWorkbookBannerOnly(t *testing.T) {
	path := writeWorkbook(t, t.TempDir(), "BOM Component Availability Report.xlsx", [][]interface{}{
		{"BOM Component Availability"},
		{"Generated 2026-08-01"},
	})

	bom, err := ParseBOMWorkbook(path)
	if err != nil {
		t.Fatalf("ParseBOMWorkbook: %v", err)
	}
	if len(bom.Lines) != 0 {
		t.Errorf("lines = %d, want 0", len(bom.Lines))
	}
}
