// Package main provides the CLI for ontolint, the OntoUML catalog data quality checker.
package main

import (
	"os"

	"github.com/leapstack-labs/ontolint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
