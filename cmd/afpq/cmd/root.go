// Package cmd provides the CLI commands for afpq.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "afpq",
	Short: "Estimate field service project quotes",
	Long: `afpq calculates field service quotes from saved quote records.

A record file holds every input of a quote: crew size, schedule,
travel, labor rates, expenses, and spare parts. afpq replays the
calculation and prints the priced quote.

Examples:
  afpq estimate quote.json
  afpq estimate --format markdown quote.json
  afpq estimate --year 2027 quote.json`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("afpq version 0.1.0")
	},
}
