package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

var stderrIsTerminal = term.IsTerminal(int(os.Stderr.Fd()))

// progressf prints carriage-return progress lines. They are only useful
// on an interactive terminal, so piped stderr stays clean.
func progressf(quiet bool, format string, args ...any) {
	if quiet || !stderrIsTerminal {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
