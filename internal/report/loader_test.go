package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stockops/stockorders/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func statusByName(t *testing.T, statuses []FileStatus, name string) FileStatus {
	t.Helper()
	for _, s := range statuses {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no status for %s in %+v", name, statuses)
	return FileStatus{}
}

func TestLoadDirBuildsSnapshot(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "AvailabilityReport_20260801.csv",
		"SKU,Location,OnHand,OnOrder,InTransit,Available\n"+
			"100,NC - Main,5,0,0,5\n"+
			"900,NC - Main,12,0,0,12\n")
	writeFile(t, dir, "InventoryList_20260801.csv",
		"ProductCode,Name,AssemblyBOM,AutoAssemble,AutoDisassemble,LastSuppliedBy,SupplierProductCode\n"+
			"100,Widget,YES,NO,NO,Acme Supply,AC-100\n")
	writeFile(t, dir, "replenishment-Combined NC Warehouses.csv",
		"SKU,Name,Adjusted sales velocity/day,Cost price,Lead time\n"+
			"\"=\"\"300\"\"\",Gadget,2,50,7\n")
	writeFile(t, dir, "notes.txt", "remember to rotate the exports\n")
	writeFile(t, dir, "Sales by Product Details Report OLD.xlsx", "this is not a spreadsheet")

	writeWorkbook(t, dir, "BOM Component Availability Report.xlsx", [][]interface{}{
		{"BOM Component Availability"},
		{"Generated 2026-08-01"},
		{"Product SKU", "Product", "Component SKU", "Component", "Quantity"},
		{"100", "Widget", "900", "Frame", 2},
		{"100", "Widget", "901", "Barrel", 1},
	})
	salesWorkbook(t, dir)

	sub := filepath.Join(dir, "archive")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, sub, "AvailabilityReport_skipped.csv", "SKU,Location,OnHand\n999,NC - Main,1\n")

	snap, statuses, err := NewLoader(2).LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(statuses) != 7 {
		t.Fatalf("statuses = %d, want 7 (subdirectory must be skipped)", len(statuses))
	}

	if snap.Availability == nil || len(snap.Availability.Records) != 2 {
		t.Fatalf("availability = %+v", snap.Availability)
	}
	if !snap.Availability.Columns.Has(domain.ColAvailable) {
		t.Error("availability columns missing Available")
	}
	if snap.Inventory == nil || len(snap.Inventory.Items) != 1 {
		t.Fatalf("inventory = %+v", snap.Inventory)
	}
	if item := snap.Inventory.Items[0]; item.SKU != "100" || item.AssemblyBOM != "YES" || item.SupplierCode != "AC-100" {
		t.Errorf("inventory item = %+v", item)
	}
	if snap.BOM == nil || len(snap.BOM.Lines) != 2 {
		t.Fatalf("bom = %+v", snap.BOM)
	}
	if snap.Sales == nil || snap.Sales[domain.MetricQuantity] == nil {
		t.Fatalf("sales = %+v", snap.Sales)
	}
	recs := snap.Replenishment["NC"]
	if len(recs) != 1 {
		t.Fatalf("replenishment NC = %+v", snap.Replenishment)
	}
	if recs[0].SKU != "300" || recs[0].CostPrice != 50 || recs[0].LeadTimeDays != 7 {
		t.Errorf("replenishment record = %+v", recs[0])
	}

	avail := statusByName(t, statuses, "AvailabilityReport_20260801.csv")
	if avail.Kind != KindAvailability || avail.Rows != 2 || avail.Error != "" {
		t.Errorf("availability status = %+v", avail)
	}
	repl := statusByName(t, statuses, "replenishment-Combined NC Warehouses.csv")
	if repl.Kind != KindReplenishment || repl.Warehouse != "NC" || repl.Rows != 1 {
		t.Errorf("replenishment status = %+v", repl)
	}
	if s := statusByName(t, statuses, "notes.txt"); s.Kind != KindUnknown || s.Error != "" {
		t.Errorf("unknown-file status = %+v", s)
	}
	if s := statusByName(t, statuses, "Sales by Product Details Report OLD.xlsx"); s.Error == "" {
		t.Error("corrupt workbook should carry a parse error")
	}
}

func TestLoadFilesLaterFileReplacesEarlier(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "AvailabilityReport_A.csv",
		"SKU,Location,OnHand\n100,NC - Main,1\n")
	b := writeFile(t, dir, "AvailabilityReport_B.csv",
		"SKU,Location,OnHand\n200,NC - Main,2\n")

	// Hand the paths over out of order; merge order follows filenames.
	snap, statuses, err := NewLoader(1).LoadFiles(context.Background(), []string{b, a})
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	if len(snap.Availability.Records) != 1 || snap.Availability.Records[0].SKU != "200" {
		t.Errorf("availability after replacement = %+v", snap.Availability.Records)
	}
}

func TestLoadFilesNoPaths(t *testing.T) {
	snap, statuses, err := NewLoader(0).LoadFiles(context.Background(), nil)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("statuses = %+v, want none", statuses)
	}
	if snap.Availability != nil || snap.Inventory != nil || snap.BOM != nil || snap.Sales != nil || snap.Replenishment != nil {
		t.Errorf("snapshot should stay unloaded, got %+v", snap)
	}
}

func TestLoadDirMissingDirectory(t *testing.T) {
	if _, _, err := NewLoader(1).LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
