package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [SYLLABLE]",
	Short: "Look up the C2 record of a syllable",
	Long: `Look up the structured identity of a syllable in the dictionary: its
ordinal, vowel/consonant shape, letter identities and scaled values.

Letters not covered by the dictionary are shown with their C1 identity.

Examples:
  cypher lookup the
  cypher lookup --json --timing ing`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

var (
	outputJSON bool
	showTiming bool
)

func init() {
	lookupCmd.Flags().BoolVar(&outputJSON, "json", false, "output result as JSON")
	lookupCmd.Flags().BoolVar(&showTiming, "timing", false, "show lookup timing")
	rootCmd.AddCommand(lookupCmd)
}

// lookupResult is the JSON output of lookup.
type lookupResult struct {
	Syllable  string         `json:"syllable"`
	Found     bool           `json:"found"`
	Ordinal   int            `json:"ordinal"`
	Shape     string         `json:"shape,omitempty"`
	Letters   []int          `json:"letter_values,omitempty"`
	Scaled    []int          `json:"multipliers,omitempty"`
	Literals  map[string]int `json:"literals,omitempty"`
	ElapsedNs int64          `json:"elapsed_ns,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	syllable := strings.ToLower(args[0])

	client, err := openClient(context.Background())
	if err != nil {
		return err
	}
	defer client.Close()

	start := time.Now()
	rec, found := client.Cypher().Syllables().Lookup(syllable)
	elapsed := time.Since(start)

	res := lookupResult{Syllable: syllable, Found: found}
	if found {
		res.Ordinal = rec.Ordinal
		res.Shape = rec.Shape
		res.Letters = rec.Letters
		res.Scaled = rec.Scaled[:]
	} else {
		letters := client.Cypher().Letters()
		res.Literals = make(map[string]int)
		for _, r := range syllable {
			res.Literals[string(r)] = letters.Identity(r)
		}
	}
	if showTiming {
		res.ElapsedNs = elapsed.Nanoseconds()
	}

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(res)
	}
	printLookupText(res, elapsed)
	return nil
}

func printLookupText(res lookupResult, elapsed time.Duration) {
	fmt.Printf("Syllable: %s\n", res.Syllable)
	if res.Found {
		fmt.Printf("Ordinal:  %d\n", res.Ordinal)
		fmt.Printf("Shape:    %s\n", res.Shape)
		fmt.Printf("Letters:  %v\n", res.Letters)
		for i, v := range res.Scaled {
			fmt.Printf("  x%d:     %d\n", i+1, v)
		}
	} else {
		fmt.Println("Not in dictionary; letters encode as literals:")
		for _, r := range res.Syllable {
			id := res.Literals[string(r)]
			if id == cypher.UnknownIdentity {
				fmt.Printf("  %q: unsupported\n", r)
				continue
			}
			fmt.Printf("  %q: %d\n", r, id)
		}
	}
	if showTiming {
		fmt.Printf("Time:     %s\n", elapsed)
	}
}
