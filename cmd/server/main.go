// Package main implements the flashnotes command: an HTTP server that turns
// pasted notes into question/answer flashcards, plus maintenance commands for
// the database schema and a local extraction tool.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
