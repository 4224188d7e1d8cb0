package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// The minimum billing value is a contractual floor on labor billing. The
// international target is a flat 100 equivalent-hours at the fixed
// contractual international rate; it deliberately does not track the
// quote's editable rates. Domestic targets scale with the regular rate.
const (
	mbvInternationalRate  = 160.00
	mbvInternationalHours = 100.0
	mbvDomesticHours      = 50.0
)

// MinimumBillingTarget returns the contractual labor floor for a region.
func MinimumBillingTarget(region Region, domesticRegularRate decimal.Decimal) decimal.Decimal {
	if region == RegionInternational {
		return decimal.NewFromFloat(mbvInternationalRate).Mul(decimal.NewFromInt(mbvInternationalHours))
	}
	return domesticRegularRate.Mul(decimal.NewFromInt(mbvDomesticHours))
}

// applyMinimumBilling tops the labor lines up to the contractual floor.
// It sums every service line whose description denotes labor (travel and
// RT/OT/DT lines; expenses are excluded) and, on a shortfall, appends one
// adjustment line labeled with the target. Runs after all labor lines and
// before contingency, which percentages the post-adjustment subtotal.
func applyMinimumBilling(lines []LineItem, region Region, regularRate decimal.Decimal, disabled bool, log *CalcLog) []LineItem {
	if disabled {
		log.Addf("MBV Guardrail: Disabled by user.")
		return lines
	}

	target := MinimumBillingTarget(region, regularRate)

	labor := decimal.Zero
	for _, line := range lines {
		if strings.Contains(line.Description, "Labor") {
			labor = labor.Add(line.Total)
		}
	}

	if labor.LessThan(target) {
		shortfall := target.Sub(labor)
		lines = append(lines, LineItem{
			Description: fmt.Sprintf("Minimum Billing Adjustment (Target $%s)", formatMoney(target)),
			Qty:         1,
			Rate:        shortfall,
			Total:       shortfall,
		})
		log.Addf("MBV Guardrail: Labor $%s < Target $%s. Added Adjustment: $%s",
			formatMoney(labor), formatMoney(target), formatMoney(shortfall))
	} else {
		log.Addf("MBV Guardrail: Labor $%s meets Target $%s. No adjustment.",
			formatMoney(labor), formatMoney(target))
	}
	return lines
}
