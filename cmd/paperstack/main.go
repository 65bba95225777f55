// Package main provides the paperstack CLI: a personal bibliography
// manager storing article, book, and website records in a local
// library database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints the single-line failure message. Before the
// messenger exists (config loading failed) it falls back to plain
// stderr output.
func reportError(err error) {
	if messenger != nil {
		messenger.Error("%v", err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
