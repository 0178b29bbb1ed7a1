package main

import (
	"errors"
	"fmt"
	"os"

	"tcg/cmd/tcg/commands"
	"tcg/internal/generator"
)

func main() {
	if err := commands.Execute(); err != nil {
		var reported *generator.ReportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
