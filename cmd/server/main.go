// Package main implements the postpone command: the HTTP server for the
// task postponement API plus its maintenance subcommands.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
