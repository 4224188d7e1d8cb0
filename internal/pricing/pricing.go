// Package pricing implements the field-service quote engine: schedule
// simulation, travel billing, the spare-part markup curve, the minimum
// billing guardrail, quote assembly, and the audit record.
//
// Everything here is a pure function of its inputs. The pricing year and
// generation timestamp are injected by callers so the same inputs always
// produce the same quote.
package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Region selects the rate card and the minimum-billing target.
type Region string

const (
	RegionDomestic      Region = "DOMESTIC"
	RegionInternational Region = "INTERNATIONAL"
)

// ParseRegion validates a region value from a form or saved record.
func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionDomestic, RegionInternational:
		return Region(s), nil
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// TravelMode controls which travel expense lines a quote emits.
type TravelMode string

const (
	ModeFly      TravelMode = "FLY"
	ModeDrive    TravelMode = "DRIVE"
	ModeFlyDrive TravelMode = "FLY then DRIVE"
	ModeNone     TravelMode = "N/A"
)

// LineItem is one priced row of the quote. Line order is insertion order
// and is preserved verbatim into documents and the audit record.
type LineItem struct {
	Description string          `json:"description"`
	Qty         float64         `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	Total       decimal.Decimal `json:"total"`
}

// PartLine is one priced spare-part row.
type PartLine struct {
	Line        string          `json:"line"`
	PartNumber  string          `json:"part"`
	Description string          `json:"description"`
	Qty         float64         `json:"qty"`
	Rate        decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	LeadTime    string          `json:"lead_time"`
}

// Totals are derived from the line lists and stay consistent with them:
// Grand is always Service plus Parts.
type Totals struct {
	Service decimal.Decimal `json:"service"`
	Parts   decimal.Decimal `json:"parts"`
	Grand   decimal.Decimal `json:"grand"`
}

// LaborRates is the hourly rate card applied to labor lines.
type LaborRates struct {
	Regular    decimal.Decimal
	Overtime   decimal.Decimal
	Doubletime decimal.Decimal
	Travel     decimal.Decimal
}

// CalcLog is the ordered calculation trail, one entry per meaningful
// decision, appended in the exact order calculations occur.
type CalcLog []string

func (l *CalcLog) Addf(format string, args ...any) {
	*l = append(*l, fmt.Sprintf(format, args...))
}

// formatMoney renders a decimal amount as a comma-grouped currency string
// with two decimals, e.g. 16000 -> "16,000.00".
func formatMoney(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// formatQty renders an hour or unit quantity without trailing zeros.
func formatQty(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
