// Package main is the entry point for the schemaforge CLI.
package main

import (
	"context"
	"os"

	"github.com/schemaforge/schemaforge/cli/commands"
	"github.com/schemaforge/schemaforge/internal/ui"
)

func main() {
	root := commands.NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
