package report

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name          string
		wantKind      FileKind
		wantWarehouse string
	}{
		{"AvailabilityReport_20260801.csv", KindAvailability, ""},
		{"InventoryList_20260801.csv", KindInventory, ""},
		{"BOM Component Availability Report.xlsx", KindBOM, ""},
		{"BOM Component Availability Report.csv", KindUnknown, ""},
		{"Sales by Product Details Report.xlsx", KindSales, ""},
		{"replenishment-Combined NC Warehouses-variants-20260801.csv", KindReplenishment, "NC"},
		{"replenishment-Combined_CA_Warehouses-variants-1.csv", KindReplenishment, "CA"},
		{"replenishment-Combined_nc_Warehouses.csv", KindReplenishment, "NC"},
		{"notes.txt", KindUnknown, ""},
		{"/uploads/AvailabilityReport_1.csv", KindAvailability, ""},
	}
	for _, tc := range cases {
		kind, warehouse := Classify(tc.name)
		if kind != tc.wantKind || warehouse != tc.wantWarehouse {
			t.Errorf("Classify(%q) = %s/%q, want %s/%q",
				tc.name, kind, warehouse, tc.wantKind, tc.wantWarehouse)
		}
	}
}
