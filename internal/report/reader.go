// internal/report/reader.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockops/stockorders/internal/domain"
	"github.com/stockops/stockorders/internal/engine"
)

// rawTable is a header-indexed view over parsed rows, shared by the CSV
// and workbook readers.
type rawTable struct {
	headers []string
	index   map[string]int
	rows    [][]string
}

func newRawTable(headers []string, rows [][]string) *rawTable {
	t := &rawTable{rows: rows}
	t.setHeaders(headers)
	t.clean()
	return t
}

func (t *rawTable) setHeaders(headers []string) {
	t.headers = make([]string, len(headers))
	t.index = make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		t.headers[i] = name
		if _, ok := t.index[name]; !ok && name != "" {
			t.index[name] = i
		}
	}
}

// clean drops unnamed columns and columns with no data at all, the way
// the reports sometimes pad their exports.
func (t *rawTable) clean() {
	keep := make([]int, 0, len(t.headers))
	for i, name := range t.headers {
		if name == "" {
			continue
		}
		empty := true
		for _, row := range t.rows {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == len(t.headers) {
		return
	}

	headers := make([]string, len(keep))
	for out, src := range keep {
		headers[out] = t.headers[src]
	}
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		next := make([]string, len(keep))
		for out, src := range keep {
			if src < len(row) {
				next[out] = row[src]
			}
		}
		rows[r] = next
	}
	t.rows = rows
	t.setHeaders(headers)
}

func (t *rawTable) col(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

func (t *rawTable) columnSet() domain.ColumnSet {
	return domain.NewColumnSet(t.headers...)
}

func (t *rawTable) str(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *rawTable) float(row []string, i int) float64 {
	return parseFloat(t.str(row, i))
}

// parseFloat reads a numeric cell, treating blanks and junk as zero the
// way the source reports are consumed elsewhere.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Exports write thousands separators on some columns.
		v, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return 0
		}
	}
	return v
}

// readCSV parses a whole CSV stream into a raw table. Ragged rows are
// tolerated; short rows read missing cells as blank.
func readCSV(r io.Reader) (*rawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return newRawTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		rows = append(rows, record)
	}
	return newRawTable(header, rows), nil
}

func availabilityFromTable(t *rawTable) *domain.AvailabilityTable {
	out := &domain.AvailabilityTable{Columns: t.columnSet()}
	sku := t.col(domain.ColSKU)
	loc := t.col(domain.ColLocation)
	name := t.col(domain.ColProductName)
	onHand := t.col(domain.ColOnHand)
	onOrder := t.col(domain.ColOnOrder)
	inTransit := t.col(domain.ColInTransit)
	avail := t.col(domain.ColAvailable)

	for _, row := range t.rows {
		out.Records = append(out.Records, domain.AvailabilityRecord{
			SKU:         t.str(row, sku),
			Location:    t.str(row, loc),
			ProductName: t.str(row, name),
			OnHand:      t.float(row, onHand),
			OnOrder:     t.float(row, onOrder),
			InTransit:   t.float(row, inTransit),
			Available:   t.float(row, avail),
		})
	}
	return out
}

func inventoryFromTable(t *rawTable) *domain.InventoryTable {
	out := &domain.InventoryTable{Columns: t.columnSet()}
	sku := t.col(domain.ColProductCode)
	name := t.col(domain.ColName)
	bom := t.col(domain.ColAssemblyBOM)
	auto := t.col(domain.ColAutoAssemble)
	disasm := t.col(domain.ColAutoDisassemble)
	supplier := t.col(domain.ColLastSuppliedBy)
	code := t.col(domain.ColSupplierCode)

	for _, row := range t.rows {
		out.Items = append(out.Items, domain.InventoryItem{
			SKU:             t.str(row, sku),
			Name:            t.str(row, name),
			AssemblyBOM:     t.str(row, bom),
			AutoAssemble:    t.str(row, auto),
			AutoDisassemble: t.str(row, disasm),
			LastSuppliedBy:  t.str(row, supplier),
			SupplierCode:    t.str(row, code),
		})
	}
	return out
}

func replenishmentFromTable(t *rawTable) []domain.ReplenishmentRecord {
	sku := t.col(domain.ColSKU)
	name := t.col(domain.ColName)
	velocity := t.col(domain.ColDailyVelocity)
	price := t.col(domain.ColCostPrice)
	lead := t.col(domain.ColLeadTime)

	var out []domain.ReplenishmentRecord
	for _, row := range t.rows {
		out = append(out, domain.ReplenishmentRecord{
			SKU:           engine.NormalizeSKU(t.str(row, sku)),
			Name:          t.str(row, name),
			DailyVelocity: t.float(row, velocity),
			CostPrice:     t.float(row, price),
			LeadTimeDays:  t.float(row, lead),
		})
	}
	return out
}

func bomFromTable(t *rawTable) *domain.BOMTable {
	out := &domain.BOMTable{Columns: t.columnSet()}
	product := t.col(domain.ColBOMProductSKU)
	productName := t.col(domain.ColBOMProduct)
	component := t.col(domain.ColBOMComponentSKU)
	componentName := t.col(domain.ColBOMComponent)
	qty := t.col(domain.ColBOMQuantity)

	for _, row := range t.rows {
		out.Lines = append(out.Lines, domain.BOMLine{
			ProductSKU:    t.str(row, product),
			ProductName:   t.str(row, productName),
			ComponentSKU:  t.str(row, component),
			ComponentName: t.str(row, componentName),
			Quantity:      t.float(row, qty),
		})
	}
	return out
}
