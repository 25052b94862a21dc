// internal/engine/po.go
package engine

import (
	"sort"
	"strings"

	"github.com/stockops/stockorders/internal/domain"
)

// POInput bundles the purchase order sources for one warehouse. Warehouse
// is the location prefix stock aggregation filters on, e.g. "NC".
type POInput struct {
	Replenishment     []domain.ReplenishmentRecord
	SalesTotals       map[string]domain.SKUTotals
	Inventory         *domain.InventoryTable
	Availability      *domain.AvailabilityTable
	Warehouse         string
	ExcludedSuppliers []string
}

// POResult carries the aggregated order lines plus which optional columns
// the export should include, decided by what the source reports carried.
type POResult struct {
	Lines               []domain.POLine
	IncludeSupplierCode bool
	IncludeProductName  bool
}

// GeneratePOLines sizes a purchase order per replenishment row, then
// filters and aggregates the lines for import. Velocity is scaled by the
// margin adjustment for the item's price tier before computing the target,
// and a SKU absent from sales or stock reads as zero there.
func GeneratePOLines(in POInput, cfg Config) (POResult, domain.StageDiagnostics) {
	diag := domain.StageDiagnostics{Stage: "po"}
	res := POResult{}
	if len(in.Replenishment) == 0 {
		diag.AddNote("replenishment report empty, no lines generated")
		return res, diag
	}

	invBySKU := make(map[string]domain.InventoryItem)
	if in.Inventory != nil {
		if missing := in.Inventory.Columns.Missing(domain.ColProductCode, domain.ColLastSuppliedBy); len(missing) > 0 {
			diag.MissingColumns = append(diag.MissingColumns, missing...)
		} else {
			res.IncludeSupplierCode = in.Inventory.Columns.Has(domain.ColSupplierCode)
			for _, item := range in.Inventory.Items {
				sku := NormalizeSKU(item.SKU)
				if _, ok := invBySKU[sku]; !ok {
					invBySKU[sku] = item
				}
			}
		}
	}

	// Inventory names win over replenishment names when the column exists.
	invName := in.Inventory != nil && in.Inventory.Columns.Has(domain.ColName)
	res.IncludeProductName = invName
	if !invName {
		for _, rec := range in.Replenishment {
			if rec.Name != "" {
				res.IncludeProductName = true
				break
			}
		}
	}

	stock := aggregateStock(in.Availability, in.Warehouse, &diag)

	excluded := make(map[string]bool, len(in.ExcludedSuppliers))
	for _, s := range in.ExcludedSuppliers {
		excluded[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var lines []domain.POLine
	for _, rec := range in.Replenishment {
		diag.RowsProcessed++
		sku := NormalizeSKU(rec.SKU)

		totals := in.SalesTotals[sku]
		margin := 0.0
		if totals.Sales != 0 {
			margin = totals.Profit / totals.Sales
		}
		adjusted := rec.DailyVelocity * (1 + cfg.VelocityAdjustment(rec.CostPrice, margin))

		days := rec.LeadTimeDays + cfg.LeadTimeBufferDays
		target := adjusted * days

		st := stock[sku]
		need := target - st.available - st.onOrder
		if need < 0 {
			need = 0
		}
		qty := ceilInt(need)

		item := invBySKU[sku]
		supplier := strings.TrimSpace(item.LastSuppliedBy)
		name := rec.Name
		if invName {
			name = item.Name
		}

		if supplier == "" || qty <= 0 || excluded[strings.ToLower(supplier)] {
			diag.RowsDropped++
			continue
		}
		lines = append(lines, domain.POLine{
			RecordType:           domain.RecordTypeOrder,
			Supplier:             supplier,
			SupplierCode:         item.SupplierCode,
			SKU:                  sku,
			ProductName:          name,
			Quantity:             qty,
			UnitPrice:            rec.CostPrice,
			LeadTimeDays:         rec.LeadTimeDays,
			AdjustedMonthlySales: adjusted * 30,
		})
	}

	res.Lines = aggregateLines(lines)
	return res, diag
}

type stockLevels struct {
	available float64
	onOrder   float64
}

// aggregateStock sums Available and OnOrder per SKU over locations whose
// name starts with the warehouse prefix. A report missing the needed
// columns aggregates to nothing, which zero-fills downstream stock.
func aggregateStock(table *domain.AvailabilityTable, prefix string, diag *domain.StageDiagnostics) map[string]stockLevels {
	agg := make(map[string]stockLevels)
	if table.Empty() {
		diag.AddNote("availability report empty, stock treated as zero")
		return agg
	}
	if missing := table.Columns.Missing(domain.ColSKU, domain.ColLocation,
		domain.ColAvailable, domain.ColOnOrder); len(missing) > 0 {
		diag.MissingColumns = append(diag.MissingColumns, missing...)
		diag.AddNote("availability columns missing, stock treated as zero")
		return agg
	}
	for _, rec := range table.Records {
		if !strings.HasPrefix(rec.Location, prefix) {
			continue
		}
		sku := NormalizeSKU(rec.SKU)
		levels := agg[sku]
		levels.available += rec.Available
		levels.onOrder += rec.OnOrder
		agg[sku] = levels
	}
	return agg
}

// aggregateLines merges lines sharing supplier, SKU and unit price by
// summing quantities; the first line wins the remaining fields. Output is
// ordered by supplier, SKU, then price.
func aggregateLines(lines []domain.POLine) []domain.POLine {
	type key struct {
		supplier string
		sku      string
		price    float64
	}
	byKey := make(map[key]int)
	merged := make([]domain.POLine, 0, len(lines))
	for _, line := range lines {
		k := key{line.Supplier, line.SKU, line.UnitPrice}
		if i, ok := byKey[k]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		byKey[k] = len(merged)
		merged = append(merged, line)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Supplier != merged[j].Supplier {
			return merged[i].Supplier < merged[j].Supplier
		}
		if merged[i].SKU != merged[j].SKU {
			return merged[i].SKU < merged[j].SKU
		}
		return merged[i].UnitPrice < merged[j].UnitPrice
	})
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// SumMetricTotals collapses the four sales metric tables into per-SKU
// totals over the reporting window. Rows repeating a SKU accumulate.
func SumMetricTotals(sales map[string]*domain.WideTable) map[string]domain.SKUTotals {
	totals := make(map[string]domain.SKUTotals)
	add := func(metric string, assign func(*domain.SKUTotals, float64)) {
		table := sales[metric]
		if table.Empty() {
			return
		}
		for _, row := range table.Rows {
			sku := NormalizeSKU(row.SKU)
			var sum float64
			for i := range table.Columns {
				sum += row.Value(i)
			}
			t := totals[sku]
			t.SKU = sku
			assign(&t, sum)
			totals[sku] = t
		}
	}
	add(domain.MetricSale, func(t *domain.SKUTotals, v float64) { t.Sales += v })
	add(domain.MetricCOGS, func(t *domain.SKUTotals, v float64) { t.COGS += v })
	add(domain.MetricProfit, func(t *domain.SKUTotals, v float64) { t.Profit += v })
	add(domain.MetricQuantity, func(t *domain.SKUTotals, v float64) { t.Quantity += v })
	return totals
}
