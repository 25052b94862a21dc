// internal/engine/replenish.go
package engine

import (
	"math"
	"strings"

	"github.com/stockops/stockorders/internal/domain"
)

// ReplenishInput bundles the reports the selector reads, plus the
// warehouse whose locations the position sums run over.
type ReplenishInput struct {
	Inventory    *domain.InventoryTable
	Availability *domain.AvailabilityTable
	BOM          *domain.BOMTable
	Velocities   []domain.SalesVelocity
	Warehouse    string
	Locations    []string
}

// SelectReplenishments flags assembly-eligible SKUs whose stock cannot
// cover a month of sales and sizes a build for each. Eligibility comes
// from the inventory master flags; any empty input yields no candidates.
func SelectReplenishments(in ReplenishInput, cfg Config) ([]domain.ReplenishmentCandidate, domain.StageDiagnostics) {
	diag := domain.StageDiagnostics{Stage: "replenishment"}
	if in.Inventory.Empty() || in.Availability.Empty() || in.BOM.Empty() || len(in.Velocities) == 0 {
		diag.AddNote("one or more inputs empty, no candidates selected")
		return nil, diag
	}
	if missing := in.Inventory.Columns.Missing(domain.ColProductCode, domain.ColAssemblyBOM,
		domain.ColAutoAssemble, domain.ColAutoDisassemble); len(missing) > 0 {
		diag.MissingColumns = missing
		return nil, diag
	}

	excluded := make(map[string]bool, len(cfg.ExcludedAssemblySKUs))
	for _, sku := range cfg.ExcludedAssemblySKUs {
		excluded[NormalizeSKU(sku)] = true
	}

	// First velocity row wins when a SKU repeats.
	velocityBySKU := make(map[string]domain.SalesVelocity, len(in.Velocities))
	for _, v := range in.Velocities {
		if _, ok := velocityBySKU[v.SKU]; !ok {
			velocityBySKU[v.SKU] = v
		}
	}

	var eligible []string
	seen := make(map[string]bool)
	for _, item := range in.Inventory.Items {
		diag.RowsProcessed++
		if !strings.EqualFold(item.AssemblyBOM, "YES") ||
			!strings.EqualFold(item.AutoAssemble, "NO") ||
			!strings.EqualFold(item.AutoDisassemble, "NO") {
			diag.RowsDropped++
			continue
		}
		sku := NormalizeSKU(item.SKU)
		if excluded[sku] || seen[sku] {
			diag.RowsDropped++
			continue
		}
		seen[sku] = true
		eligible = append(eligible, sku)
	}

	calc := NewPositionCalculator(in.Availability, in.Locations)

	var out []domain.ReplenishmentCandidate
	for _, sku := range eligible {
		pos := calc.Position(sku)
		vel := velocityBySKU[sku]

		target := vel.AvgDailySales * cfg.DaysOfStock
		needs := pos.TotalAvailable+pos.OnOrder < vel.AvgMonthlySales
		if !needs || target <= pos.TotalAvailable {
			continue
		}

		base := max(cfg.MinAssemblyQty, ceilInt(vel.AvgMonthlySales-pos.TotalAvailable))
		ceiling := max(cfg.MinAssemblyCeiling, ceilInt(vel.AvgMonthlySales*cfg.MonthlyMultiple))
		qty := min(base, ceiling, cfg.MaxAssemblyQty)

		out = append(out, domain.ReplenishmentCandidate{
			SKU:             sku,
			Warehouse:       in.Warehouse,
			AvgDailySales:   vel.AvgDailySales,
			AvgMonthlySales: vel.AvgMonthlySales,
			Available:       pos.TotalAvailable,
			OnOrder:         pos.OnOrder,
			TargetInventory: target,
			AssemblyQty:     qty,
		})
	}
	return out, diag
}

func ceilInt(x float64) int {
	return int(math.Ceil(x))
}
