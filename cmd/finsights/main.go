package main

import (
	"os"

	"github.com/diabolical-ninja/Finsights/cmd/finsights/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
