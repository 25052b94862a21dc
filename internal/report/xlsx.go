// internal/report/xlsx.go
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stockops/stockorders/internal/domain"
)

// readWorkbookRows reads every row of the first sheet of a workbook.
func readWorkbookRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}
	return rows, nil
}

// bomSkipRows is the banner the BOM export writes above its header.
const bomSkipRows = 2

// ParseBOMWorkbook reads the BOM component availability workbook. The
// header sits under a two-row banner.
func ParseBOMWorkbook(path string) (*domain.BOMTable, error) {
	rows, err := readWorkbookRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) <= bomSkipRows {
		return &domain.BOMTable{Columns: domain.ColumnSet{}}, nil
	}
	rows = rows[bomSkipRows:]
	return bomFromTable(newRawTable(rows[0], rows[1:])), nil
}

// salesSkipRows is the banner above the sales report's two header rows.
const salesSkipRows = 4

var salesMetrics = []string{
	domain.MetricSale,
	domain.MetricQuantity,
	domain.MetricCOGS,
	domain.MetricProfit,
}

// ParseSalesWorkbook splits the combined sales report into one wide table
// per metric. The report stacks two header rows under a banner: months on
// top, spanning merged cells, and the metric name underneath. Merged month
// cells come back blank past the first column, so the month carries
// forward until the next label.
func ParseSalesWorkbook(path string) (map[string]*domain.WideTable, error) {
	rows, err := readWorkbookRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < salesSkipRows+2 {
		return nil, fmt.Errorf("sales workbook %s is too short for its header layout", path)
	}
	rows = rows[salesSkipRows:]

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	months := padRow(rows[0], width)
	metrics := padRow(rows[1], width)

	carry := ""
	for i := 1; i < width; i++ {
		if strings.TrimSpace(months[i]) == "" {
			months[i] = carry
		} else {
			months[i] = strings.TrimSpace(months[i])
			carry = months[i]
		}
	}

	skuHeader := strings.TrimSpace(months[0])
	if skuHeader == "" {
		skuHeader = strings.TrimSpace(metrics[0])
	}
	if skuHeader == "" {
		skuHeader = domain.ColSKU
	}

	out := make(map[string]*domain.WideTable, len(salesMetrics))
	for _, metric := range salesMetrics {
		var cols []int
		var names []string
		for i := 1; i < width; i++ {
			if strings.TrimSpace(metrics[i]) == metric {
				cols = append(cols, i)
				names = append(names, months[i])
			}
		}
		if len(cols) == 0 {
			continue
		}

		table := &domain.WideTable{SKUHeader: skuHeader, Columns: names}
		for _, row := range rows[2:] {
			sku := ""
			if len(row) > 0 {
				sku = strings.TrimSpace(row[0])
			}
			if sku == "" {
				continue
			}
			values := make([]float64, len(cols))
			for j, c := range cols {
				values[j] = cellFloat(row, c)
			}
			table.Rows = append(table.Rows, domain.WideRow{SKU: sku, Values: values})
		}
		out[metric] = table
	}
	return out, nil
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return append([]string(nil), row...)
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func cellFloat(row []string, i int) float64 {
	if i < 0 || i >= len(row) {
		return 0
	}
	return parseFloat(strings.TrimSpace(row[i]))
}
