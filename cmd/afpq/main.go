// Command afpq estimates field service quotes from saved record files.
package main

import (
	"os"

	"github.com/KemosBram1/afp-estimator/cmd/afpq/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
