// internal/domain/results.go
package domain

// Assembly status values mirror the strings the operations team reads off
// the exported reports, so they are part of the output contract.
const (
	AssemblyStatusReady  = "Ready for Production"
	AssemblyStatusBlock  = "Cannot Assemble"
	ComponentStatusReady = "Ready"
	ComponentStatusShort = "Shortage"
)

// ABC classification classes, best sellers first.
const (
	ClassA = "A"
	ClassB = "B"
	ClassC = "C"
)

// RecordTypeOrder marks purchase order export rows.
const RecordTypeOrder = "Order"

// TransferReasonBalance is the reason attached to stock-balancing moves.
const TransferReasonBalance = "Balance inventory (not needed for assemblies)"

// ReplenishmentCandidate is a SKU the selector flagged for assembly, with
// the velocity and position figures that justified it.
type ReplenishmentCandidate struct {
	SKU             string  `json:"sku"`
	Warehouse       string  `json:"warehouse"`
	AvgDailySales   float64 `json:"avg_daily_sales"`
	AvgMonthlySales float64 `json:"avg_monthly_sales"`
	Available       float64 `json:"available"`
	OnOrder         float64 `json:"on_order"`
	TargetInventory float64 `json:"target_inventory"`
	AssemblyQty     int     `json:"qty_for_assembly"`
}

// ComponentAnalysis is one BOM component checked against warehouse stock
// for a candidate build.
type ComponentAnalysis struct {
	ComponentSKU  string  `json:"component_sku"`
	ComponentName string  `json:"component_name,omitempty"`
	QtyPerUnit    float64 `json:"qty_per_unit"`
	QtyNeeded     float64 `json:"qty_needed"`
	Available     float64 `json:"available"`
	Shortage      float64 `json:"shortage"`
	Status        string  `json:"status"`
}

// AssemblyAnalysis is the feasibility verdict for one candidate: ready only
// when every component line is ready.
type AssemblyAnalysis struct {
	SKU             string              `json:"sku"`
	AssemblyName    string              `json:"assembly_name,omitempty"`
	Warehouse       string              `json:"warehouse"`
	AssemblyQty     int                 `json:"qty_for_assembly"`
	AvgDailySales   float64             `json:"avg_daily_sales"`
	AvgMonthlySales float64             `json:"avg_monthly_sales"`
	Available       float64             `json:"available"`
	OnOrder         float64             `json:"on_order"`
	TargetInventory float64             `json:"target_inventory"`
	Status          string              `json:"status"`
	TotalComponents int                 `json:"total_components"`
	ReadyComponents int                 `json:"ready_components"`
	Components      []ComponentAnalysis `json:"components"`
}

func (a AssemblyAnalysis) Ready() bool {
	return a.Status == AssemblyStatusReady
}

// TransferRecommendation moves surplus stock between two locations of the
// same warehouse.
type TransferRecommendation struct {
	SKU          string  `json:"sku"`
	ProductName  string  `json:"product_name,omitempty"`
	FromLocation string  `json:"from_location"`
	ToLocation   string  `json:"to_location"`
	FromOnHand   float64 `json:"from_on_hand"`
	ToOnHand     float64 `json:"to_on_hand"`
	Quantity     float64 `json:"quantity"`
	Reason       string  `json:"reason"`
}

// ABCRecord is one SKU ranked by profit contribution. CumulativeShare is
// the running share of the grand total at this rank.
type ABCRecord struct {
	SKU             string  `json:"sku"`
	Total           float64 `json:"total"`
	Cumulative      float64 `json:"cumulative"`
	CumulativeShare float64 `json:"cumulative_share"`
	Class           string  `json:"class"`
}

// POLine is one aggregated purchase order row ready for export. Optional
// fields follow the columns the source reports carried.
type POLine struct {
	RecordType           string  `json:"record_type"`
	Supplier             string  `json:"supplier_name"`
	SupplierCode         string  `json:"supplier_product_code,omitempty"`
	SKU                  string  `json:"product"`
	ProductName          string  `json:"product_name,omitempty"`
	Quantity             int     `json:"quantity"`
	UnitPrice            float64 `json:"unit_price"`
	LeadTimeDays         float64 `json:"lead_time_days"`
	AdjustedMonthlySales float64 `json:"adjusted_monthly_sales"`
}
