package main

import (
	"os"

	"github.com/spigell/proposal-writer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
