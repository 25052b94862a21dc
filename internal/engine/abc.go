// internal/engine/abc.go
package engine

import (
	"sort"

	"github.com/stockops/stockorders/internal/domain"
)

// ClassifyABC ranks the rows of a profit table by total contribution and
// cuts the ranking into A, B and C classes by cumulative share. The sort
// is stable, so rows with equal totals keep their input order. A table
// whose grand total is zero classifies everything as C.
func ClassifyABC(table *domain.WideTable, cfg Config) ([]domain.ABCRecord, domain.StageDiagnostics) {
	diag := domain.StageDiagnostics{Stage: "abc"}
	if table.Empty() {
		return nil, diag
	}

	out := make([]domain.ABCRecord, 0, len(table.Rows))
	var grand float64
	for _, row := range table.Rows {
		diag.RowsProcessed++
		var total float64
		for i := range table.Columns {
			total += row.Value(i)
		}
		grand += total
		out = append(out, domain.ABCRecord{SKU: NormalizeSKU(row.SKU), Total: total})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })

	var running float64
	for i := range out {
		running += out[i].Total
		out[i].Cumulative = running
		out[i].Class = domain.ClassC
		if grand == 0 {
			continue
		}
		out[i].CumulativeShare = running / grand
		switch {
		case out[i].CumulativeShare <= cfg.ClassACut:
			out[i].Class = domain.ClassA
		case out[i].CumulativeShare <= cfg.ClassBCut:
			out[i].Class = domain.ClassB
		}
	}
	return out, diag
}
