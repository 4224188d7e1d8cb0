package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Tier selects which markup curve parts pricing uses.
type Tier string

const (
	TierStandard   Tier = "Standard"
	TierPreferred  Tier = "Preferred"
	TierKeyAccount Tier = "Key Account (AERO/MPWA)"
)

// ParseTier validates a tier value from a form or saved record.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierStandard, TierPreferred, TierKeyAccount:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown pricing tier %q", s)
}

const (
	landedCostFactor = 1.035 // inbound freight/handling surcharge
	pivotBaseYear    = 2025
	pivotInflation   = 1.05 // annual vendor-cost creep applied to the pivot
)

type markupCurve struct {
	pivot   float64 // base pivot at pivotBaseYear
	floor   float64
	ceiling float64
}

func (t Tier) curve() markupCurve {
	switch t {
	case TierKeyAccount:
		return markupCurve{pivot: 200.0, floor: 1.539, ceiling: 2.0}
	case TierPreferred:
		return markupCurve{pivot: 100.0, floor: 1.60, ceiling: 3.5}
	default:
		return markupCurve{pivot: 70.0, floor: 1.67, ceiling: 4.0}
	}
}

// PartPrice converts a vendor cost into a sell price and the markup
// multiplier applied. The curve is a monotonically decreasing hyperbola:
// cheap parts price near the tier ceiling to cover handling overhead,
// expensive parts approach the floor to stay competitive, with no
// discontinuous jumps between cost brackets.
//
// A non-positive cost prices to zero. The year parameter keeps inflation
// adjustment reproducible instead of reading the clock.
func PartPrice(vendorCost decimal.Decimal, tier Tier, year int) (decimal.Decimal, float64) {
	if !vendorCost.IsPositive() {
		return decimal.Zero, 0
	}

	landed := vendorCost.Mul(decimal.NewFromFloat(landedCostFactor))

	years := year - pivotBaseYear
	if years < 0 {
		years = 0
	}
	c := tier.curve()
	pivot := c.pivot * math.Pow(pivotInflation, float64(years))

	markup := c.floor + (c.ceiling-c.floor)/(1.0+landed.InexactFloat64()/pivot)
	sell := landed.Mul(decimal.NewFromFloat(markup)).Round(2)
	return sell, markup
}
