// internal/engine/config.go
package engine

import "math"

// Config carries the tunable thresholds of the decision stages. Defaults
// match the values the operations team ran with.
type Config struct {
	VelocityWindowMonths int
	DaysOfStock          float64
	MinAssemblyQty       int
	MinAssemblyCeiling   int
	MonthlyMultiple      float64
	MaxAssemblyQty       int
	ExcludedAssemblySKUs []string
	TransferSourceMin    float64
	TransferDestMin      float64
	ClassACut            float64
	ClassBCut            float64
	LeadTimeBufferDays   float64
	PriceTiers           []PriceTier
}

func DefaultConfig() Config {
	return Config{
		VelocityWindowMonths: 6,
		DaysOfStock:          30,
		MinAssemblyQty:       2,
		MinAssemblyCeiling:   10,
		MonthlyMultiple:      3,
		MaxAssemblyQty:       1000,
		ExcludedAssemblySKUs: []string{"2444", "4300", "3818", "2582"},
		TransferSourceMin:    20,
		TransferDestMin:      20,
		ClassACut:            0.70,
		ClassBCut:            0.90,
		LeadTimeBufferDays:   3,
		PriceTiers:           DefaultPriceTiers(),
	}
}

// MarginBand maps a profit margin interval to a velocity adjustment
// factor. Bounds are exclusive unless the Incl flag is set.
type MarginBand struct {
	Lo         float64
	Hi         float64
	LoIncl     bool
	HiIncl     bool
	Adjustment float64
}

func (b MarginBand) contains(m float64) bool {
	if m < b.Lo || (m == b.Lo && !b.LoIncl) {
		return false
	}
	if m > b.Hi || (m == b.Hi && !b.HiIncl) {
		return false
	}
	return true
}

// PriceTier groups margin bands by cost price. MaxPrice is exclusive; the
// last tier is open-ended.
type PriceTier struct {
	MaxPrice float64
	Bands    []MarginBand
}

// DefaultPriceTiers encodes the velocity adjustment table agreed with
// purchasing. A margin between two bands adjusts by zero.
func DefaultPriceTiers() []PriceTier {
	lo := math.Inf(-1)
	hi := math.Inf(1)
	return []PriceTier{
		{MaxPrice: 100, Bands: []MarginBand{
			{Lo: lo, Hi: 0.1, Adjustment: -0.8},
			{Lo: 0.1, LoIncl: true, Hi: 0.2, Adjustment: -0.5},
			{Lo: 0.2, LoIncl: true, Hi: 0.25, Adjustment: -0.2},
			{Lo: 0.26, LoIncl: true, Hi: 0.33, HiIncl: true, Adjustment: 0},
			{Lo: 0.33, Hi: hi, Adjustment: 0.1},
		}},
		{MaxPrice: 250, Bands: []MarginBand{
			{Lo: lo, Hi: 0.1, Adjustment: -0.8},
			{Lo: 0.1, LoIncl: true, Hi: 0.2, Adjustment: -0.5},
			{Lo: 0.2, LoIncl: true, Hi: 0.3, HiIncl: true, Adjustment: 0},
			{Lo: 0.3, Hi: hi, Adjustment: 0.05},
		}},
		{MaxPrice: 750, Bands: []MarginBand{
			{Lo: lo, Hi: 0.05, Adjustment: -0.8},
			{Lo: 0.05, LoIncl: true, Hi: 0.15, Adjustment: -0.5},
			{Lo: 0.15, LoIncl: true, Hi: 0.28, HiIncl: true, Adjustment: 0},
			{Lo: 0.28, Hi: hi, Adjustment: 0.03},
		}},
		{MaxPrice: hi, Bands: []MarginBand{
			{Lo: lo, Hi: 0.05, Adjustment: -0.9},
			{Lo: 0.05, LoIncl: true, Hi: 0.12, Adjustment: -0.6},
			{Lo: 0.12, LoIncl: true, Hi: 0.25, HiIncl: true, Adjustment: 0},
			{Lo: 0.25, Hi: hi, Adjustment: 0.02},
		}},
	}
}

// VelocityAdjustment looks up the adjustment for a cost price and profit
// margin. Unknown prices and unmatched margins adjust by zero.
func (c Config) VelocityAdjustment(price, margin float64) float64 {
	for _, tier := range c.PriceTiers {
		if price >= tier.MaxPrice {
			continue
		}
		for _, b := range tier.Bands {
			if b.contains(margin) {
				return b.Adjustment
			}
		}
		return 0
	}
	return 0
}
