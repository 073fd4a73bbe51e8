package main

import (
	"os"

	"github.com/edulens/edulens/cmd/edulens/commands"
)

// main is the entry point for the edulens CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
