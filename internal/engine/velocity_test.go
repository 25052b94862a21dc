package engine

import (
	"testing"

	"github.com/stockops/stockorders/internal/domain"
)

func TestEstimateVelocitySixMonthWindow(t *testing.T) {
	table := &domain.WideTable{
		SKUHeader: "SKU",
		Columns:   []string{"Mar 2026", "Apr 2026", "May 2026", "Jun 2026", "Jul 2026", "Aug 2026"},
		Rows: []domain.WideRow{
			{SKU: "100", Values: []float64{30, 30, 30, 30, 30, 30}},
			{SKU: "200", Values: []float64{0, 0, 0, 0, 0, 12}},
		},
	}

	got, diag := EstimateVelocity(table, 6)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].AvgDailySales != 1.0 {
		t.Errorf("AvgDailySales = %v, want 1.0", got[0].AvgDailySales)
	}
	if got[0].AvgMonthlySales != 30.0 {
		t.Errorf("AvgMonthlySales = %v, want 30.0", got[0].AvgMonthlySales)
	}
	if got[1].AvgMonthlySales != 2.0 {
		t.Errorf("AvgMonthlySales = %v, want 2.0", got[1].AvgMonthlySales)
	}
	if len(diag.Notes) != 0 {
		t.Errorf("unexpected notes: %v", diag.Notes)
	}
}

func TestEstimateVelocitySkipsTotalAndAverageColumns(t *testing.T) {
	table := &domain.WideTable{
		SKUHeader: "SKU",
		Columns:   []string{"Mar", "Apr", "May", "Jun", "Jul", "Aug", "Total 6 Months", "Average Monthly"},
		Rows: []domain.WideRow{
			{SKU: "100", Values: []float64{10, 10, 10, 10, 10, 10, 60, 10}},
		},
	}

	got, _ := EstimateVelocity(table, 6)
	if got[0].AvgMonthlySales != 10 {
		t.Errorf("AvgMonthlySales = %v, want 10 with summary columns skipped", got[0].AvgMonthlySales)
	}
}

func TestEstimateVelocityEmptyTable(t *testing.T) {
	for name, table := range map[string]*domain.WideTable{
		"nil":   nil,
		"empty": {SKUHeader: "SKU", Columns: []string{"Mar"}},
	} {
		t.Run(name, func(t *testing.T) {
			got, _ := EstimateVelocity(table, 6)
			if len(got) != 0 {
				t.Errorf("len = %d, want 0", len(got))
			}
		})
	}
}

func TestEstimateVelocityWindowMismatchNoted(t *testing.T) {
	table := &domain.WideTable{
		SKUHeader: "SKU",
		Columns:   []string{"May", "Jun", "Jul", "Aug"},
		Rows: []domain.WideRow{
			{SKU: "100", Values: []float64{15, 15, 15, 15}},
		},
	}

	got, diag := EstimateVelocity(table, 6)
	if len(diag.Notes) == 0 {
		t.Error("expected a note for the column/window mismatch")
	}
	// Divisor stays the configured window.
	if got[0].AvgMonthlySales != 10 {
		t.Errorf("AvgMonthlySales = %v, want 10", got[0].AvgMonthlySales)
	}
}

func TestEstimateVelocityNormalizesSKUs(t *testing.T) {
	table := &domain.WideTable{
		SKUHeader: "SKU",
		Columns:   []string{"Aug"},
		Rows: []domain.WideRow{
			{SKU: ` ="450" `, Values: []float64{6}},
		},
	}

	got, _ := EstimateVelocity(table, 6)
	if got[0].SKU != "450" {
		t.Errorf("SKU = %q, want %q", got[0].SKU, "450")
	}
}
