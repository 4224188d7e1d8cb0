// Package render turns an assembled quote into a Markdown document. The
// engine only guarantees line content and order; layout here is for
// human review and downstream conversion.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/KemosBram1/afp-estimator/internal/pricing"
)

// Document describes the rendered quote header.
type Document struct {
	QuoteNumber string
	Input       pricing.QuoteInput
	Result      pricing.Result
	GeneratedAt time.Time
}

// Markdown renders the full quote document: header, service and parts
// tables in insertion order, totals, scope of work, and assumptions.
func Markdown(doc Document) string {
	var b strings.Builder

	in := doc.Input
	res := doc.Result

	fmt.Fprintf(&b, "# Field Service Quote - %s\n\n", in.ProjectName)
	fmt.Fprintf(&b, "**Quote:** %s  \n", doc.QuoteNumber)
	fmt.Fprintf(&b, "**Date:** %s  \n", doc.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Client:** %s  \n", in.ClientName)
	fmt.Fprintf(&b, "**Site:** %s  \n", in.SiteName)
	fmt.Fprintf(&b, "**Region:** %s\n\n", in.Region)

	if !in.PartsOnly && len(res.ServiceLines) > 0 {
		b.WriteString("## Service\n\n")
		b.WriteString("| Description | Qty | Rate | Total |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, line := range res.ServiceLines {
			fmt.Fprintf(&b, "| %s | %s | $%s | $%s |\n",
				escapePipes(line.Description), formatQty(line.Qty), line.Rate.StringFixed(2), line.Total.StringFixed(2))
		}
		fmt.Fprintf(&b, "\n**Service Total: $%s**\n\n", res.Totals.Service.StringFixed(2))
	}

	if len(res.PartLines) > 0 {
		b.WriteString("## Parts\n\n")
		b.WriteString("| Line | Part # | Description | Qty | Unit | Total | Lead Time |\n")
		b.WriteString("|---|---|---|---:|---:|---:|---|\n")
		for _, part := range res.PartLines {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | $%s | $%s | %s |\n",
				part.Line, escapePipes(part.PartNumber), escapePipes(part.Description),
				formatQty(part.Qty), part.Rate.StringFixed(2), part.Total.StringFixed(2), part.LeadTime)
		}
		fmt.Fprintf(&b, "\n**Parts Total: $%s**\n\n", res.Totals.Parts.StringFixed(2))
	}

	fmt.Fprintf(&b, "## Grand Total: $%s\n\n", res.Totals.Grand.StringFixed(2))

	if in.ScopeOfWork != "" {
		fmt.Fprintf(&b, "## Scope of Work\n\n%s\n\n", in.ScopeOfWork)
	}
	if in.Assumptions != "" {
		fmt.Fprintf(&b, "## Assumptions / Terms\n\n%s\n", in.Assumptions)
	}

	return b.String()
}

func formatQty(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
