// internal/engine/transfer.go
package engine

import (
	"math"

	"github.com/stockops/stockorders/internal/domain"
)

// TransferInput names the two locations of one warehouse a balancing move
// runs between.
type TransferInput struct {
	Availability *domain.AvailabilityTable
	BOM          *domain.BOMTable
	From         string
	To           string
}

// RecommendTransfers proposes moving surplus from one location to another
// for items no assembly consumes. A move triggers when a source row holds
// more than the source floor while the destination sits under its floor,
// and never draws the source below that floor.
func RecommendTransfers(in TransferInput, cfg Config) ([]domain.TransferRecommendation, domain.StageDiagnostics) {
	diag := domain.StageDiagnostics{Stage: "transfers"}
	if in.Availability.Empty() {
		return nil, diag
	}
	if missing := in.Availability.Columns.Missing(domain.ColSKU, domain.ColLocation,
		domain.ColOnHand); len(missing) > 0 {
		diag.MissingColumns = missing
		return nil, diag
	}

	components := make(map[string]bool)
	if !in.BOM.Empty() && in.BOM.Columns.Has(domain.ColBOMComponentSKU) {
		for _, line := range in.BOM.Lines {
			components[NormalizeSKU(line.ComponentSKU)] = true
		}
	}

	destCalc := NewPositionCalculator(in.Availability, []string{in.To})

	var out []domain.TransferRecommendation
	for _, rec := range in.Availability.Records {
		if rec.Location != in.From {
			continue
		}
		diag.RowsProcessed++

		sku := NormalizeSKU(rec.SKU)
		if rec.OnHand <= cfg.TransferSourceMin || components[sku] {
			diag.RowsDropped++
			continue
		}
		dest := destCalc.Position(sku)
		if dest.OnHand >= cfg.TransferDestMin {
			diag.RowsDropped++
			continue
		}

		qty := math.Min(rec.OnHand-cfg.TransferSourceMin, cfg.TransferDestMin-dest.OnHand)
		if qty <= 0 {
			diag.RowsDropped++
			continue
		}
		out = append(out, domain.TransferRecommendation{
			SKU:          sku,
			ProductName:  rec.ProductName,
			FromLocation: in.From,
			ToLocation:   in.To,
			FromOnHand:   rec.OnHand,
			ToOnHand:     dest.OnHand,
			Quantity:     qty,
			Reason:       domain.TransferReasonBalance,
		})
	}
	return out, diag
}
