// Package main provides the entry point for the rosterly CLI tool.
package main

import (
	"github.com/rosterly/rosterly/cmd/rosterly/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
