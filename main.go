// Package main is the entry point for the dotametrics CLI tool, which tracks
// Dota 2 match histories and computes player and roster win-rate statistics.
package main

import "github.com/pable/go-dota-metrics/cmd"

func main() {
	cmd.Execute()
}
