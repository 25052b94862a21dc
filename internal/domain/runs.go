// internal/domain/runs.go
package domain

import "time"

// AssemblyRun is one complete order-generation pass for a warehouse:
// replenishment candidates, their feasibility verdicts, balancing
// transfers and the profit classification, with per-stage diagnostics.
type AssemblyRun struct {
	Warehouse   string                   `json:"warehouse"`
	GeneratedAt time.Time                `json:"generated_at"`
	Fingerprint string                   `json:"fingerprint"`
	Candidates  []ReplenishmentCandidate `json:"candidates"`
	Analyses    []AssemblyAnalysis       `json:"analyses"`
	Transfers   []TransferRecommendation `json:"transfers"`
	ABC         []ABCRecord              `json:"abc"`
	Diagnostics RunDiagnostics           `json:"diagnostics"`
}

// ReadyCount reports how many analyses passed the component check.
func (r *AssemblyRun) ReadyCount() int {
	n := 0
	for _, a := range r.Analyses {
		if a.Ready() {
			n++
		}
	}
	return n
}

// PORun is one purchase order generation pass for a warehouse.
type PORun struct {
	Warehouse           string         `json:"warehouse"`
	GeneratedAt         time.Time      `json:"generated_at"`
	Fingerprint         string         `json:"fingerprint"`
	Lines               []POLine       `json:"lines"`
	IncludeSupplierCode bool           `json:"include_supplier_code"`
	IncludeProductName  bool           `json:"include_product_name"`
	Diagnostics         RunDiagnostics `json:"diagnostics"`
}
