// Package main is the entry point for the matchintel CLI tool, which
// detects and queries League of Legends teamfights from match timelines.
package main

import "github.com/OZiad/league-of-legends-match-intelligence-system/cmd"

func main() {
	cmd.Execute()
}
