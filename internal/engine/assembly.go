// internal/engine/assembly.go
package engine

import (
	"fmt"

	"github.com/stockops/stockorders/internal/domain"
)

// AnalyzeAssemblies checks each candidate build against component stock in
// the given locations. Candidates without a bill of materials are skipped.
// Each candidate is checked against the same stock snapshot, so the result
// does not depend on candidate order.
func AnalyzeAssemblies(candidates []domain.ReplenishmentCandidate, bom *domain.BOMTable,
	availability *domain.AvailabilityTable, locations []string) ([]domain.AssemblyAnalysis, domain.StageDiagnostics) {

	diag := domain.StageDiagnostics{Stage: "assembly"}
	if len(candidates) == 0 || bom.Empty() || availability.Empty() {
		return nil, diag
	}
	if missing := bom.Columns.Missing(domain.ColBOMProductSKU, domain.ColBOMComponentSKU,
		domain.ColBOMQuantity); len(missing) > 0 {
		diag.MissingColumns = missing
		return nil, diag
	}

	linesBySKU := make(map[string][]domain.BOMLine)
	for _, line := range bom.Lines {
		sku := NormalizeSKU(line.ProductSKU)
		linesBySKU[sku] = append(linesBySKU[sku], line)
	}

	calc := NewPositionCalculator(availability, locations)

	var out []domain.AssemblyAnalysis
	for _, cand := range candidates {
		diag.RowsProcessed++
		parts := linesBySKU[cand.SKU]
		if len(parts) == 0 {
			diag.RowsDropped++
			continue
		}

		analysis := domain.AssemblyAnalysis{
			SKU:             cand.SKU,
			AssemblyName:    parts[0].ProductName,
			Warehouse:       cand.Warehouse,
			AssemblyQty:     cand.AssemblyQty,
			AvgDailySales:   cand.AvgDailySales,
			AvgMonthlySales: cand.AvgMonthlySales,
			Available:       cand.Available,
			OnOrder:         cand.OnOrder,
			TargetInventory: cand.TargetInventory,
			TotalComponents: len(parts),
		}
		for _, part := range parts[1:] {
			if part.ProductName != "" && part.ProductName != analysis.AssemblyName {
				diag.AddNote(fmt.Sprintf("bom lines for %s disagree on product name", cand.SKU))
				break
			}
		}

		ready := true
		for _, part := range parts {
			needed := part.Quantity * float64(cand.AssemblyQty)
			pos := calc.Position(part.ComponentSKU)

			comp := domain.ComponentAnalysis{
				ComponentSKU:  NormalizeSKU(part.ComponentSKU),
				ComponentName: part.ComponentName,
				QtyPerUnit:    part.Quantity,
				QtyNeeded:     needed,
				Available:     pos.TotalAvailable,
				Status:        domain.ComponentStatusReady,
			}
			if pos.TotalAvailable < needed {
				comp.Status = domain.ComponentStatusShort
				comp.Shortage = needed - pos.TotalAvailable
				ready = false
			} else {
				analysis.ReadyComponents++
			}
			analysis.Components = append(analysis.Components, comp)
		}

		if ready {
			analysis.Status = domain.AssemblyStatusReady
		} else {
			analysis.Status = domain.AssemblyStatusBlock
		}
		out = append(out, analysis)
	}
	return out, diag
}
