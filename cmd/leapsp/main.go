// Package main provides the leapsp CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapsp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
