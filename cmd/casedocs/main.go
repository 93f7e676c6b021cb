package main

import (
	"os"

	"github.com/RichardKnop/casedocs/cmd/casedocs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
