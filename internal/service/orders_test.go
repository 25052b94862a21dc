// internal/service/orders_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/domain"
	"github.com/stockops/stockorders/internal/engine"
)

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			VelocityWindowMonths: 6,
			DaysOfStock:          30,
			MinAssemblyQty:       2,
			MinAssemblyCeiling:   10,
			MonthlyMultiple:      3,
			MaxAssemblyQty:       1000,
			TransferSourceMin:    20,
			TransferDestMin:      20,
			ABCClassACut:         0.70,
			ABCClassBCut:         0.90,
			LeadTimeBufferDays:   3,
		},
		Warehouses: []config.WarehouseConfig{{
			Code:         "NC",
			Locations:    []string{"NC - Main", "NC - Armory", "NC - FFL"},
			TransferFrom: "NC - Armory",
			TransferTo:   "NC - Main",
		}},
	}
}

func seedDatasets(snap *domain.Snapshot) *DatasetService {
	svc := NewDatasetService(0)
	svc.snapshot = snap
	svc.loadedAt = time.Now()
	return svc
}

// assemblySnapshot sets up one warehouse where SKU 100 sells ten a month
// against five on hand, SKU 200 sits overstocked in the armory, and SKU
// 300 is the component that builds 100.
func assemblySnapshot() *domain.Snapshot {
	months := []string{"Feb 2026", "Mar 2026", "Apr 2026", "May 2026", "Jun 2026", "Jul 2026"}
	return &domain.Snapshot{
		Inventory: domain.NewInventoryTable([]domain.InventoryItem{
			{SKU: "100", Name: "Widget", AssemblyBOM: "YES", AutoAssemble: "NO", AutoDisassemble: "NO"},
			{SKU: "200", Name: "Gadget", AssemblyBOM: "NO", AutoAssemble: "NO", AutoDisassemble: "NO"},
		}),
		Availability: domain.NewAvailabilityTable([]domain.AvailabilityRecord{
			{SKU: "100", Location: "NC - Main", OnHand: 5, Available: 5},
			{SKU: "300", Location: "NC - Main", OnHand: 50, Available: 50},
			{SKU: "200", Location: "NC - Armory", OnHand: 35, Available: 35},
			{SKU: "200", Location: "NC - Main", OnHand: 5, Available: 5},
		}),
		BOM: domain.NewBOMTable([]domain.BOMLine{
			{ProductSKU: "100", ProductName: "Widget", ComponentSKU: "300", ComponentName: "Frame", Quantity: 2},
		}),
		Sales: map[string]*domain.WideTable{
			domain.MetricQuantity: {
				SKUHeader: "SKU",
				Columns:   months,
				Rows: []domain.WideRow{
					{SKU: "100", Values: []float64{10, 10, 10, 10, 10, 10}},
					{SKU: "200", Values: []float64{1, 1, 1, 1, 1, 1}},
				},
			},
			domain.MetricProfit: {
				SKUHeader: "SKU",
				Columns:   []string{"Jul 2026"},
				Rows: []domain.WideRow{
					{SKU: "100", Values: []float64{300}},
					{SKU: "200", Values: []float64{100}},
				},
			},
		},
	}
}

func TestOrderServiceGenerate(t *testing.T) {
	cfg := testConfig()
	svc := NewOrderService(seedDatasets(assemblySnapshot()), cfg)

	run, err := svc.Generate(context.Background(), "nc")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if run.Warehouse != "NC" {
		t.Fatalf("warehouse = %q, want NC", run.Warehouse)
	}
	if run.Fingerprint == "" {
		t.Fatal("run should carry the snapshot fingerprint")
	}

	if len(run.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(run.Candidates), run.Candidates)
	}
	cand := run.Candidates[0]
	if cand.SKU != "100" || cand.AssemblyQty != 5 {
		t.Fatalf("candidate = %+v, want SKU 100 qty 5", cand)
	}
	if cand.AvgMonthlySales != 10 || cand.Available != 5 {
		t.Fatalf("candidate figures = %+v", cand)
	}

	if len(run.Analyses) != 1 {
		t.Fatalf("got %d analyses, want 1", len(run.Analyses))
	}
	analysis := run.Analyses[0]
	if !analysis.Ready() || analysis.TotalComponents != 1 {
		t.Fatalf("analysis = %+v, want ready with one component", analysis)
	}
	if run.ReadyCount() != 1 {
		t.Fatalf("ReadyCount = %d, want 1", run.ReadyCount())
	}

	if len(run.Transfers) != 1 {
		t.Fatalf("got %d transfers, want 1: %+v", len(run.Transfers), run.Transfers)
	}
	mv := run.Transfers[0]
	if mv.SKU != "200" || mv.Quantity != 15 {
		t.Fatalf("transfer = %+v, want SKU 200 qty 15", mv)
	}
	if mv.FromLocation != "NC - Armory" || mv.ToLocation != "NC - Main" {
		t.Fatalf("transfer route = %s to %s", mv.FromLocation, mv.ToLocation)
	}

	if len(run.ABC) != 2 {
		t.Fatalf("got %d abc records, want 2", len(run.ABC))
	}
	if run.ABC[0].SKU != "100" || run.ABC[0].Class != domain.ClassB {
		t.Fatalf("abc[0] = %+v, want SKU 100 class B", run.ABC[0])
	}
	if run.ABC[1].Class != domain.ClassC {
		t.Fatalf("abc[1] = %+v, want class C", run.ABC[1])
	}

	wantStages := []string{"velocity", "replenishment", "assembly", "transfers", "abc"}
	if len(run.Diagnostics.Stages) != len(wantStages) {
		t.Fatalf("got %d stages, want %d", len(run.Diagnostics.Stages), len(wantStages))
	}
	for i, name := range wantStages {
		if run.Diagnostics.Stages[i].Stage != name {
			t.Fatalf("stage[%d] = %q, want %q", i, run.Diagnostics.Stages[i].Stage, name)
		}
	}
	if run.Diagnostics.Degraded() {
		t.Fatal("run should not be degraded")
	}

	if got := svc.Latest("NC"); got != run {
		t.Fatal("Latest should return the generated run")
	}
	if got := svc.Latest("nc"); got != run {
		t.Fatal("Latest should resolve warehouse codes case-insensitively")
	}
}

func TestOrderServiceGenerateMissingTables(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name  string
		strip func(*domain.Snapshot) *domain.Snapshot
	}{
		{"no dataset", func(*domain.Snapshot) *domain.Snapshot { return nil }},
		{"no inventory", func(s *domain.Snapshot) *domain.Snapshot { s.Inventory = nil; return s }},
		{"no availability", func(s *domain.Snapshot) *domain.Snapshot { s.Availability = nil; return s }},
		{"no bom", func(s *domain.Snapshot) *domain.Snapshot { s.BOM = nil; return s }},
		{"no sales quantity", func(s *domain.Snapshot) *domain.Snapshot { s.Sales = nil; return s }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewOrderService(seedDatasets(tc.strip(assemblySnapshot())), cfg)
			_, err := svc.Generate(context.Background(), "NC")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !engine.IsMissingTable(err) {
				t.Fatalf("error %v should be a missing table error", err)
			}
		})
	}

	svc := NewOrderService(seedDatasets(assemblySnapshot()), cfg)
	if _, err := svc.Generate(context.Background(), "TX"); err == nil {
		t.Fatal("unknown warehouse should error")
	}
	if svc.Latest("TX") != nil {
		t.Fatal("Latest for unknown warehouse should be nil")
	}
}

func TestOrderServiceGenerateWithoutProfitMetric(t *testing.T) {
	snap := assemblySnapshot()
	delete(snap.Sales, domain.MetricProfit)

	svc := NewOrderService(seedDatasets(snap), testConfig())
	run, err := svc.Generate(context.Background(), "NC")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(run.ABC) != 0 {
		t.Fatalf("abc should be empty without a profit metric, got %+v", run.ABC)
	}
	abc := run.Diagnostics.Stage("abc")
	if abc == nil || len(abc.Notes) == 0 {
		t.Fatalf("abc stage should note the skip, got %+v", abc)
	}
	if len(run.Candidates) != 1 {
		t.Fatal("assembly chain should still run without the profit metric")
	}
}
