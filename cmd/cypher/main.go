// Package main provides the cypher CLI tool for building syllable
// dictionaries and encoding, archiving and restoring text with them.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
