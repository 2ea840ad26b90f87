package main

import (
	"os"

	"github.com/rustyeddy/harvester/cmd/harvester/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
