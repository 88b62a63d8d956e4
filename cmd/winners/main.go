package main

import (
	"os"

	"github.com/antagata/campaign-winners/cmd/winners/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
