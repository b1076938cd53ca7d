// Command truthmines validates a fact graph stored as JSON node files and
// JSONL edge files, and builds TOON context packs and indexes from it.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"truthmines/internal/validate"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		// The validate command has already printed its report
		if !errors.Is(err, validate.ErrValidationFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
