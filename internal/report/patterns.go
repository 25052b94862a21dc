// internal/report/patterns.go
package report

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FileKind names the report a file carries, decided from its filename the
// same way the warehouse exports name them.
type FileKind string

const (
	KindUnknown       FileKind = "unknown"
	KindAvailability  FileKind = "availability"
	KindBOM           FileKind = "bom"
	KindInventory     FileKind = "inventory"
	KindReplenishment FileKind = "replenishment"
	KindSales         FileKind = "sales"
)

// Replenishment exports name the warehouse either with spaces or with
// underscores, e.g. "replenishment-Combined NC Warehouses-variants-1.csv".
var replenishmentName = regexp.MustCompile(`replenishment-Combined[ _]([A-Za-z]+)[ _]Warehouses`)

// Classify maps a filename to its report kind. Replenishment files also
// yield the warehouse code they were exported for.
func Classify(name string) (FileKind, string) {
	base := filepath.Base(name)
	switch {
	case strings.HasPrefix(base, "AvailabilityReport_"):
		return KindAvailability, ""
	case strings.Contains(base, "BOM Component Availability") && strings.HasSuffix(base, ".xlsx"):
		return KindBOM, ""
	case strings.HasPrefix(base, "InventoryList_"):
		return KindInventory, ""
	case strings.Contains(base, "Sales by Product Details Report") && strings.HasSuffix(base, ".xlsx"):
		return KindSales, ""
	}
	if m := replenishmentName.FindStringSubmatch(base); m != nil {
		return KindReplenishment, strings.ToUpper(m[1])
	}
	return KindUnknown, ""
}
