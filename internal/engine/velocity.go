// internal/engine/velocity.go
package engine

import (
	"fmt"
	"strings"

	"github.com/stockops/stockorders/internal/domain"
)

// EstimateVelocity turns a wide quantity-by-month table into per-SKU daily
// and monthly sales averages. Total and Average columns appended by the
// report are skipped; every data row yields one estimate. The divisor is
// the configured window, with a note when the report disagrees.
func EstimateVelocity(table *domain.WideTable, windowMonths int) ([]domain.SalesVelocity, domain.StageDiagnostics) {
	diag := domain.StageDiagnostics{Stage: "velocity"}
	if table.Empty() {
		return nil, diag
	}

	cols := make([]int, 0, len(table.Columns))
	for i, name := range table.Columns {
		if strings.HasPrefix(name, "Total") || strings.HasPrefix(name, "Average") {
			continue
		}
		cols = append(cols, i)
	}
	if windowMonths > 0 && len(cols) != windowMonths {
		diag.AddNote(fmt.Sprintf("report carries %d month columns, velocity window is %d", len(cols), windowMonths))
	}
	if windowMonths <= 0 {
		diag.AddNote("velocity window not positive, rates zeroed")
	}

	out := make([]domain.SalesVelocity, 0, len(table.Rows))
	for _, row := range table.Rows {
		diag.RowsProcessed++
		var total float64
		for _, i := range cols {
			total += row.Value(i)
		}
		v := domain.SalesVelocity{SKU: NormalizeSKU(row.SKU)}
		if windowMonths > 0 {
			v.AvgMonthlySales = total / float64(windowMonths)
			v.AvgDailySales = total / float64(windowMonths) / 30
		}
		out = append(out, v)
	}
	return out, diag
}
