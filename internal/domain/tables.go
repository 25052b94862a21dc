// internal/domain/tables.go
package domain

// Canonical column names of the ingested report tables. Engine stages check
// these against the header set a file actually carried.
const (
	ColSKU             = "SKU"
	ColLocation        = "Location"
	ColOnHand          = "OnHand"
	ColOnOrder         = "OnOrder"
	ColInTransit       = "InTransit"
	ColAvailable       = "Available"
	ColProductName     = "ProductName"
	ColProductCode     = "ProductCode"
	ColName            = "Name"
	ColAssemblyBOM     = "AssemblyBOM"
	ColAutoAssemble    = "AutoAssemble"
	ColAutoDisassemble = "AutoDisassemble"
	ColLastSuppliedBy  = "LastSuppliedBy"
	ColSupplierCode    = "SupplierProductCode"
	ColBOMProductSKU   = "Product SKU"
	ColBOMProduct      = "Product"
	ColBOMComponentSKU = "Component SKU"
	ColBOMComponent    = "Component"
	ColBOMQuantity     = "Quantity"
	ColDailyVelocity   = "Adjusted sales velocity/day"
	ColCostPrice       = "Cost price"
	ColLeadTime        = "Lead time"
)

// ColumnSet records which headers were present in an ingested table, so
// missing-column handling survives the conversion to typed rows.
type ColumnSet map[string]bool

func NewColumnSet(names ...string) ColumnSet {
	s := make(ColumnSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func (s ColumnSet) Has(name string) bool {
	return s[name]
}

// Missing returns the subset of names absent from the set, in input order.
func (s ColumnSet) Missing(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !s[n] {
			missing = append(missing, n)
		}
	}
	return missing
}

// AvailabilityRecord is one row of the availability report: stock counts
// for a SKU at a single location.
type AvailabilityRecord struct {
	SKU         string  `json:"sku"`
	Location    string  `json:"location"`
	ProductName string  `json:"product_name,omitempty"`
	OnHand      float64 `json:"on_hand"`
	OnOrder     float64 `json:"on_order"`
	InTransit   float64 `json:"in_transit"`
	Available   float64 `json:"available"`
}

// AvailabilityTable holds the availability report with its observed headers.
type AvailabilityTable struct {
	Columns ColumnSet
	Records []AvailabilityRecord
}

// NewAvailabilityTable wraps records with the full canonical column set.
// Loaders that saw an incomplete file build the table directly instead.
func NewAvailabilityTable(records []AvailabilityRecord) *AvailabilityTable {
	return &AvailabilityTable{
		Columns: NewColumnSet(ColSKU, ColLocation, ColProductName,
			ColOnHand, ColOnOrder, ColInTransit, ColAvailable),
		Records: records,
	}
}

func (t *AvailabilityTable) Empty() bool {
	return t == nil || len(t.Records) == 0
}

// InventoryItem is one row of the inventory master list. The assembly flags
// stay raw yes/no strings; comparing them case-insensitively is engine
// behavior, not parsing behavior.
type InventoryItem struct {
	SKU             string `json:"sku"`
	Name            string `json:"name,omitempty"`
	AssemblyBOM     string `json:"assembly_bom"`
	AutoAssemble    string `json:"auto_assemble"`
	AutoDisassemble string `json:"auto_disassemble"`
	LastSuppliedBy  string `json:"last_supplied_by,omitempty"`
	SupplierCode    string `json:"supplier_product_code,omitempty"`
}

// InventoryTable holds the inventory master with its observed headers.
type InventoryTable struct {
	Columns ColumnSet
	Items   []InventoryItem
}

func NewInventoryTable(items []InventoryItem) *InventoryTable {
	return &InventoryTable{
		Columns: NewColumnSet(ColProductCode, ColName, ColAssemblyBOM,
			ColAutoAssemble, ColAutoDisassemble, ColLastSuppliedBy, ColSupplierCode),
		Items: items,
	}
}

func (t *InventoryTable) Empty() bool {
	return t == nil || len(t.Items) == 0
}

// BOMLine is one edge of the bill-of-materials: an assembly needs Quantity
// units of a component per unit built.
type BOMLine struct {
	ProductSKU    string  `json:"product_sku"`
	ProductName   string  `json:"product_name,omitempty"`
	ComponentSKU  string  `json:"component_sku"`
	ComponentName string  `json:"component_name,omitempty"`
	Quantity      float64 `json:"quantity"`
}

// BOMTable holds the BOM report with its observed headers.
type BOMTable struct {
	Columns ColumnSet
	Lines   []BOMLine
}

func NewBOMTable(lines []BOMLine) *BOMTable {
	return &BOMTable{
		Columns: NewColumnSet(ColBOMProductSKU, ColBOMProduct,
			ColBOMComponentSKU, ColBOMComponent, ColBOMQuantity),
		Lines: lines,
	}
}

func (t *BOMTable) Empty() bool {
	return t == nil || len(t.Lines) == 0
}

// WideRow is one row of a wide SKU-by-month table. Values align with the
// owning table's Columns; unparsable cells are zero.
type WideRow struct {
	SKU    string
	Values []float64
}

// WideTable is a wide numeric table keyed by SKU, one column per month
// bucket. The sales report splits into four of these, one per metric.
type WideTable struct {
	SKUHeader string
	Columns   []string
	Rows      []WideRow
}

func (t *WideTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Value returns the cell for the given column index, zero when the row is
// ragged.
func (r WideRow) Value(i int) float64 {
	if i < 0 || i >= len(r.Values) {
		return 0
	}
	return r.Values[i]
}

// ReplenishmentRecord is one row of the externally computed replenishment
// report: the PO engine's velocity, price and lead-time source.
type ReplenishmentRecord struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name,omitempty"`
	DailyVelocity float64 `json:"daily_velocity"`
	CostPrice     float64 `json:"cost_price"`
	LeadTimeDays  float64 `json:"lead_time_days"`
}

// SKUTotals aggregates the four sales metrics for one SKU over the whole
// reporting window.
type SKUTotals struct {
	SKU      string  `json:"sku"`
	Sales    float64 `json:"sales"`
	COGS     float64 `json:"cogs"`
	Profit   float64 `json:"profit"`
	Quantity float64 `json:"quantity"`
}

// SalesVelocity is the estimator's per-SKU output.
type SalesVelocity struct {
	SKU             string  `json:"sku"`
	AvgDailySales   float64 `json:"avg_daily_sales"`
	AvgMonthlySales float64 `json:"avg_monthly_sales"`
}
