package main

import (
	"os"

	"gastos/cmd/gastosctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
