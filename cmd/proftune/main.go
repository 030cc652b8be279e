// Package main is the entry point for the proftune CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/proftune/cmd/proftune/commands"
	"github.com/thoreinstein/proftune/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	exitErr := errors.Classify(err)
	if exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
	}
	os.Exit(exitErr.Code)
}
