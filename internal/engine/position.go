// internal/engine/position.go
package engine

import (
	"github.com/stockops/stockorders/internal/domain"
)

// Position is a SKU's stock posture summed over a location set.
type Position struct {
	SKU            string  `json:"sku"`
	OnHand         float64 `json:"on_hand"`
	OnOrder        float64 `json:"on_order"`
	InTransit      float64 `json:"in_transit"`
	TotalAvailable float64 `json:"total_available"`
}

// PositionCalculator answers stock queries against one availability table
// restricted to a fixed location set. Queries never mutate state, so
// concurrent reads and repeated lookups for the same SKU agree.
type PositionCalculator struct {
	bySKU    map[string][]domain.AvailabilityRecord
	degraded bool
	diag     domain.StageDiagnostics
}

// NewPositionCalculator indexes availability records for the given
// locations. A table missing SKU, Location or OnHand yields a calculator
// that answers zero for every query, with the gap noted in Diagnostics.
func NewPositionCalculator(table *domain.AvailabilityTable, locations []string) *PositionCalculator {
	calc := &PositionCalculator{
		bySKU: make(map[string][]domain.AvailabilityRecord),
		diag:  domain.StageDiagnostics{Stage: "position"},
	}
	if table.Empty() {
		return calc
	}
	if missing := table.Columns.Missing(domain.ColSKU, domain.ColLocation, domain.ColOnHand); len(missing) > 0 {
		calc.degraded = true
		calc.diag.MissingColumns = missing
		return calc
	}

	wanted := make(map[string]bool, len(locations))
	for _, loc := range locations {
		wanted[loc] = true
	}
	for _, rec := range table.Records {
		calc.diag.RowsProcessed++
		if !wanted[rec.Location] {
			calc.diag.RowsDropped++
			continue
		}
		sku := NormalizeSKU(rec.SKU)
		calc.bySKU[sku] = append(calc.bySKU[sku], rec)
	}
	return calc
}

// Position sums stock for one SKU. A SKU with no rows in the location set
// reads as zero stock.
func (c *PositionCalculator) Position(sku string) Position {
	pos := Position{SKU: NormalizeSKU(sku)}
	if c.degraded {
		return pos
	}
	for _, rec := range c.bySKU[pos.SKU] {
		pos.OnHand += rec.OnHand
		pos.OnOrder += rec.OnOrder
		pos.InTransit += rec.InTransit
	}
	pos.TotalAvailable = pos.OnHand + pos.OnOrder + pos.InTransit
	return pos
}

// Degraded reports whether the table lacked required columns.
func (c *PositionCalculator) Degraded() bool {
	return c.degraded
}

func (c *PositionCalculator) Diagnostics() domain.StageDiagnostics {
	return c.diag
}
