package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/svgren/svgfetch/internal/config"
	"github.com/svgren/svgfetch/internal/tui"
)

func main() {
	result, err := tui.Run(config.DefaultSettings())
	os.Exit(report(result, err, os.Stdout, os.Stderr))
}

// report prints the outcome of a TUI session and returns the exit status.
// The snippet is only printed for a fetch that ran to the end, since a
// partial list would be pasted into main.cpp as if it were complete.
func report(result *tui.Result, err error, stdout, stderr io.Writer) int {
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "Cancelled.")
		return 130
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if result != nil {
		// The alternate screen is gone; leave the snippet where it can be copied.
		fmt.Fprint(stdout, result.Snippet)
	}
	return 0
}
