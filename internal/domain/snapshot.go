// internal/domain/snapshot.go
package domain

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
)

// Sales metric names, matching the second header row of the sales report.
const (
	MetricSale     = "Sale"
	MetricQuantity = "Quantity"
	MetricCOGS     = "COGS"
	MetricProfit   = "Profit"
)

// Snapshot is one consistent set of ingested reports. A nil table means the
// corresponding report was never loaded, which is distinct from a loaded
// but empty one.
type Snapshot struct {
	Availability  *AvailabilityTable               `json:"availability,omitempty"`
	Inventory     *InventoryTable                  `json:"inventory,omitempty"`
	BOM           *BOMTable                        `json:"bom,omitempty"`
	Sales         map[string]*WideTable            `json:"sales,omitempty"`
	Replenishment map[string][]ReplenishmentRecord `json:"replenishment,omitempty"`
}

// SalesMetric returns the wide table for one metric, nil when the sales
// report was not loaded or lacked that metric.
func (s *Snapshot) SalesMetric(metric string) *WideTable {
	if s == nil || s.Sales == nil {
		return nil
	}
	return s.Sales[metric]
}

// ReplenishmentFor returns the replenishment rows for a warehouse code,
// nil when no report for that warehouse was loaded.
func (s *Snapshot) ReplenishmentFor(warehouse string) []ReplenishmentRecord {
	if s == nil || s.Replenishment == nil {
		return nil
	}
	return s.Replenishment[warehouse]
}

// Fingerprint hashes the snapshot content. Two snapshots built from the
// same files share a fingerprint, which keys the export cache.
func (s *Snapshot) Fingerprint() string {
	raw, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha1.Sum(raw))
}
