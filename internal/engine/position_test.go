package engine

import (
	"testing"

	"github.com/stockops/stockorders/internal/domain"
)

var ncLocations = []string{"NC - Main", "NC - Armory", "NC - FFL"}

func TestPositionSumsAcrossLocations(t *testing.T) {
	table := domain.NewAvailabilityTable([]domain.AvailabilityRecord{
		{SKU: "100", Location: "NC - Main", OnHand: 3, OnOrder: 1, InTransit: 2},
		{SKU: "100", Location: "NC - Armory", OnHand: 4},
		{SKU: "100", Location: "TX - Main", OnHand: 50, OnOrder: 8},
		{SKU: "200", Location: "NC - Main", OnHand: 7},
	})
	calc := NewPositionCalculator(table, ncLocations)

	pos := calc.Position("100")
	if pos.OnHand != 7 {
		t.Errorf("OnHand = %v, want 7", pos.OnHand)
	}
	if pos.OnOrder != 1 {
		t.Errorf("OnOrder = %v, want 1", pos.OnOrder)
	}
	if pos.InTransit != 2 {
		t.Errorf("InTransit = %v, want 2", pos.InTransit)
	}
	if pos.TotalAvailable != 10 {
		t.Errorf("TotalAvailable = %v, want 10", pos.TotalAvailable)
	}
}

func TestPositionIgnoresRowsOutsideLocationSet(t *testing.T) {
	base := []domain.AvailabilityRecord{
		{SKU: "100", Location: "NC - Main", OnHand: 5},
	}
	noisy := append([]domain.AvailabilityRecord{}, base...)
	noisy = append(noisy, domain.AvailabilityRecord{SKU: "100", Location: "CA - Main", OnHand: 99, OnOrder: 99})

	got := NewPositionCalculator(domain.NewAvailabilityTable(noisy), ncLocations).Position("100")
	want := NewPositionCalculator(domain.NewAvailabilityTable(base), ncLocations).Position("100")
	if got != want {
		t.Errorf("position changed with out-of-set rows: got %+v, want %+v", got, want)
	}
}

func TestPositionUnknownSKUReadsZero(t *testing.T) {
	table := domain.NewAvailabilityTable([]domain.AvailabilityRecord{
		{SKU: "100", Location: "NC - Main", OnHand: 5},
	})
	calc := NewPositionCalculator(table, ncLocations)

	pos := calc.Position("999")
	if pos.TotalAvailable != 0 || pos.OnHand != 0 {
		t.Errorf("unknown SKU position = %+v, want zeros", pos)
	}
}

func TestPositionMissingColumnsReadZero(t *testing.T) {
	table := &domain.AvailabilityTable{
		Columns: domain.NewColumnSet(domain.ColSKU, domain.ColOnHand),
		Records: []domain.AvailabilityRecord{
			{SKU: "100", Location: "NC - Main", OnHand: 9},
		},
	}
	calc := NewPositionCalculator(table, ncLocations)

	if !calc.Degraded() {
		t.Fatal("calculator should be degraded without the Location column")
	}
	if pos := calc.Position("100"); pos.TotalAvailable != 0 {
		t.Errorf("degraded position = %+v, want zeros", pos)
	}
	diag := calc.Diagnostics()
	if len(diag.MissingColumns) != 1 || diag.MissingColumns[0] != domain.ColLocation {
		t.Errorf("MissingColumns = %v, want [Location]", diag.MissingColumns)
	}
}

func TestPositionNormalizesSKUs(t *testing.T) {
	table := domain.NewAvailabilityTable([]domain.AvailabilityRecord{
		{SKU: `="100"`, Location: "NC - Main", OnHand: 2},
	})
	calc := NewPositionCalculator(table, ncLocations)

	if pos := calc.Position("100"); pos.OnHand != 2 {
		t.Errorf("OnHand = %v, want 2 after normalization", pos.OnHand)
	}
}

func TestPositionEmptyTable(t *testing.T) {
	for name, table := range map[string]*domain.AvailabilityTable{
		"nil":   nil,
		"empty": domain.NewAvailabilityTable(nil),
	} {
		t.Run(name, func(t *testing.T) {
			calc := NewPositionCalculator(table, ncLocations)
			if pos := calc.Position("100"); pos.TotalAvailable != 0 {
				t.Errorf("position = %+v, want zeros", pos)
			}
		})
	}
}
