package pricing

import (
	"fmt"
	"strings"
	"time"
)

const auditRule = "--------------------------------------------------------"

// AuditRecord renders the deterministic, human-readable record of one
// calculation: every input, every rate in effect, every line item in
// insertion order, the grand total, and the ordered calculation log.
// Same inputs always produce byte-identical text apart from generatedAt,
// which is injected rather than read from the clock.
func AuditRecord(in QuoteInput, res Result, generatedAt time.Time) string {
	var b strings.Builder

	status := in.Status
	if status == "" {
		status = "Draft"
	}
	mobilization := in.MobilizationDate
	if mobilization.IsZero() {
		mobilization = in.OnsiteStart
	}

	fmt.Fprintf(&b, "========================================================\n")
	fmt.Fprintf(&b, " AFP FIELD SERVICE ESTIMATOR - AUDIT RECORD\n")
	fmt.Fprintf(&b, " Generated: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, " Status:    %s\n", strings.ToUpper(status))
	fmt.Fprintf(&b, "========================================================\n\n")

	fmt.Fprintf(&b, "1. PROJECT DETAILS\n%s\n", auditRule)
	fmt.Fprintf(&b, "Project Name:  %s\n", in.ProjectName)
	fmt.Fprintf(&b, "Client:        %s\n", in.ClientName)
	fmt.Fprintf(&b, "Site:          %s\n", in.SiteName)
	fmt.Fprintf(&b, "Region:        %s\n", in.Region)
	fmt.Fprintf(&b, "Mobilization:  %s\n", formatDate(mobilization))
	fmt.Fprintf(&b, "Return Date:   %s\n\n", formatDate(res.ReturnDate))

	fmt.Fprintf(&b, "2. USER CONFIGURATION (Inputs)\n%s\n", auditRule)
	if in.PartsOnly {
		fmt.Fprintf(&b, "Mode:          Parts Only\n")
	} else {
		fmt.Fprintf(&b, "Mode:          %s\n", in.TravelMode)
		fmt.Fprintf(&b, "Techs (TFAs):  %d\n", in.Technicians)
		fmt.Fprintf(&b, "Work Days:     %d\n", in.WorkDays)
		fmt.Fprintf(&b, "Hours/Day:     %s\n", formatQty(in.HoursPerDay))
		fmt.Fprintf(&b, "Work Wknd:     Sat=%v | Sun=%v\n", in.WorkSaturday, in.WorkSunday)
		fmt.Fprintf(&b, "Travel:        Flight=$%s | Miles=%s | Hrs=%s\n",
			formatMoney(in.FlightCost), formatQty(in.Miles), formatQty(in.OneWayHours))
		fmt.Fprintf(&b, "Subsistence:   Override=%v | Manual Days=%d\n", in.OverrideSubsistence, in.ManualSubsistenceDays)
	}
	fmt.Fprintf(&b, "Contingency:   %s%%\n", formatQty(in.ContingencyPct*100))
	fmt.Fprintf(&b, "Misc Exp:      $%s\n\n", formatMoney(in.MiscExpenses))

	if !in.PartsOnly {
		fmt.Fprintf(&b, "3. RATES APPLIED\n%s\n", auditRule)
		fmt.Fprintf(&b, "Standard:      $%s/hr\n", formatMoney(in.Rates.Regular))
		fmt.Fprintf(&b, "Overtime:      $%s/hr\n", formatMoney(in.Rates.Overtime))
		fmt.Fprintf(&b, "Doubletime:    $%s/hr\n", formatMoney(in.Rates.Doubletime))
		fmt.Fprintf(&b, "Travel:        $%s/hr\n", formatMoney(in.Rates.Travel))
		fmt.Fprintf(&b, "OT Cap:        %s hours\n\n", formatQty(in.WeeklyCapHours))
	}

	fmt.Fprintf(&b, "4. CALCULATED LINE ITEMS\n%s\n", auditRule)
	fmt.Fprintf(&b, "%-50s | %-6s | %-10s | %-10s\n", "Description", "Qty", "Rate", "Total")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 85))
	for _, line := range res.Lines() {
		fmt.Fprintf(&b, "%-50s | %-6s | $%s    | $%s\n",
			truncate(line.Description, 48), formatQty(line.Qty), formatMoney(line.Rate), formatMoney(line.Total))
	}
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 85))
	fmt.Fprintf(&b, "%-70s %s\n\n", "GRAND TOTAL", formatMoney(res.Totals.Grand))

	fmt.Fprintf(&b, "5. SCOPE OF WORK\n%s\n", auditRule)
	fmt.Fprintf(&b, "%s\n\n", in.ScopeOfWork)

	fmt.Fprintf(&b, "6. CALCULATION BREAKDOWN (Audit Trail)\n%s\n", auditRule)
	if len(res.Log) == 0 {
		fmt.Fprintf(&b, "No breakdown available.\n")
	} else {
		for _, entry := range res.Log {
			fmt.Fprintf(&b, "> %s\n", entry)
		}
	}
	b.WriteByte('\n')

	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
