// internal/report/export.go
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/stockops/stockorders/internal/domain"
)

// POFilename names the purchase order export for one warehouse.
func POFilename(warehouse string) string {
	return fmt.Sprintf("purchase_order_%s.csv", strings.ToLower(warehouse))
}

// WriteAssemblyOrders writes the build sheet: candidates whose components
// are all in stock, largest builds first.
func WriteAssemblyOrders(w io.Writer, analyses []domain.AssemblyAnalysis, warehouse string) error {
	ready := make([]domain.AssemblyAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if a.Ready() {
			ready = append(ready, a)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].AssemblyQty > ready[j].AssemblyQty
	})

	cw := csv.NewWriter(w)
	header := []string{"SKU", "Assembly Name", "Quantity for Assembly",
		"Available in " + warehouse, "Avg Monthly Sales", "Components Ready"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range ready {
		row := []string{
			a.SKU,
			a.AssemblyName,
			strconv.Itoa(a.AssemblyQty),
			formatFloat(a.Available),
			format1(a.AvgMonthlySales),
			fmt.Sprintf("%d/%d", a.ReadyComponents, a.TotalComponents),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCannotAssemble writes the blocked builds with their shortage counts.
func WriteCannotAssemble(w io.Writer, analyses []domain.AssemblyAnalysis, warehouse string) error {
	cw := csv.NewWriter(w)
	header := []string{"SKU", "Assembly Name", "Quantity Needed",
		"Available in " + warehouse, "Avg Monthly Sales", "Components Ready", "Missing Components"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range analyses {
		if a.Ready() {
			continue
		}
		missing := 0
		for _, c := range a.Components {
			if c.Status == domain.ComponentStatusShort {
				missing++
			}
		}
		row := []string{
			a.SKU,
			a.AssemblyName,
			strconv.Itoa(a.AssemblyQty),
			formatFloat(a.Available),
			format1(a.AvgMonthlySales),
			fmt.Sprintf("%d/%d", a.ReadyComponents, a.TotalComponents),
			strconv.Itoa(missing),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransfers writes the stock balancing moves.
func WriteTransfers(w io.Writer, recs []domain.TransferRecommendation) error {
	cw := csv.NewWriter(w)
	header := []string{"sku", "product_name", "from_location", "to_location",
		"from_on_hand", "to_on_hand", "recommended_transfer", "reason"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			rec.SKU,
			rec.ProductName,
			rec.FromLocation,
			rec.ToLocation,
			formatFloat(rec.FromOnHand),
			formatFloat(rec.ToOnHand),
			formatFloat(rec.Quantity),
			rec.Reason,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteABC writes the profit ranking with its class cuts.
func WriteABC(w io.Writer, records []domain.ABCRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"SKU", "Total Profit", "Cumulative Profit", "Cumulative Share", "Category"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.SKU,
			formatFloat(rec.Total),
			formatFloat(rec.Cumulative),
			formatFloat(rec.CumulativeShare),
			rec.Class,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePOLines writes the purchase order in the import layout. Starred
// headers are the importer's required fields; the optional columns follow
// what the source reports carried.
func WritePOLines(w io.Writer, lines []domain.POLine, includeSupplierCode, includeProductName bool) error {
	cw := csv.NewWriter(w)

	header := []string{"RecordType*", "SupplierName*"}
	if includeSupplierCode {
		header = append(header, "SupplierProductCode")
	}
	header = append(header, "Product*")
	if includeProductName {
		header = append(header, "ProductName")
	}
	header = append(header, "Quantity*", "Price/Amount*", "Lead time", "Adjusted Monthly Sales")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, line := range lines {
		row := []string{line.RecordType, line.Supplier}
		if includeSupplierCode {
			row = append(row, line.SupplierCode)
		}
		row = append(row, line.SKU)
		if includeProductName {
			row = append(row, line.ProductName)
		}
		row = append(row,
			strconv.Itoa(line.Quantity),
			formatFloat(line.UnitPrice),
			formatFloat(line.LeadTimeDays),
			formatFloat(line.AdjustedMonthlySales),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// format1 fixes one decimal place, the rounding the build sheet shows for
// monthly sales.
func format1(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}
