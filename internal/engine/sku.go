// internal/engine/sku.go
package engine

import "strings"

// NormalizeSKU strips the formula wrapping some exports put around
// identifiers (="12345") plus surrounding whitespace. Every stage matches
// SKUs by exact equality on the normalized form.
func NormalizeSKU(raw string) string {
	s := strings.ReplaceAll(raw, `="`, "")
	s = strings.ReplaceAll(s, `"`, "")
	return strings.TrimSpace(s)
}
