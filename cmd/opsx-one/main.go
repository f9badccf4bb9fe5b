package main

import (
	"os"

	"github.com/gisketch/opsx-one/cmd/opsx-one/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
