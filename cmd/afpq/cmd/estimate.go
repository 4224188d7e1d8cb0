package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KemosBram1/afp-estimator/internal/pricing"
	"github.com/KemosBram1/afp-estimator/internal/render"
)

var (
	outputFormat string
	pricingYear  int
	quoteNumber  string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <record.json>",
	Short: "Calculate a quote from a saved record",
	Long: `Load a saved quote record, replay the calculation, and print the
result.

Formats:
  audit     full calculation audit trail (default)
  markdown  customer-facing quote document
  json      machine-readable line items and totals`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "audit", "output format (audit, markdown, json)")
	estimateCmd.Flags().IntVarP(&pricingYear, "year", "y", 0, "override the record's pricing year")
	estimateCmd.Flags().StringVarP(&quoteNumber, "number", "n", "DRAFT", "quote number for the markdown document")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read record file: %w", err)
	}

	rec, err := pricing.LoadRecord(data)
	if err != nil {
		return err
	}
	if pricingYear != 0 {
		rec.PricingYear = pricingYear
	}

	in, err := rec.Input()
	if err != nil {
		return err
	}
	res, err := pricing.Calculate(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "audit":
		fmt.Fprint(out, pricing.AuditRecord(in, res, time.Now()))
	case "markdown":
		fmt.Fprint(out, render.Markdown(render.Document{
			QuoteNumber: quoteNumber,
			Input:       in,
			Result:      res,
			GeneratedAt: time.Now(),
		}))
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(estimateJSON(res)); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
	return nil
}

type estimateOutput struct {
	ServiceLines []pricing.LineItem `json:"service_lines"`
	PartLines    []pricing.PartLine `json:"part_lines"`
	Totals       pricing.Totals     `json:"totals"`
	TripDays     int                `json:"trip_days"`
	ReturnDate   string             `json:"return_date,omitempty"`
	Log          []string           `json:"log"`
}

func estimateJSON(res pricing.Result) estimateOutput {
	out := estimateOutput{
		ServiceLines: res.ServiceLines,
		PartLines:    res.PartLines,
		Totals:       res.Totals,
		TripDays:     res.TripDays,
		Log:          res.Log,
	}
	if !res.ReturnDate.IsZero() {
		out.ReturnDate = res.ReturnDate.Format("2006-01-02")
	}
	return out
}
