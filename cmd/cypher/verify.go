package main

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher"
)

// quickBytes is how much of each file --quick checks.
const quickBytes = 64 * 1024

var verifyCmd = &cobra.Command{
	Use:   "verify FILE...",
	Short: "Verify that files survive an encode/decode round trip",
	Long: `Verify that each file comes back byte-identical after being encoded,
serialized, parsed and decoded with the current dictionary.

Files ending in .zst or .gz are decompressed first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

var (
	verifyQuick bool
)

func init() {
	verifyCmd.Flags().BoolVar(&verifyQuick, "quick", false, "only check the first 64 KiB of each file")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	client, err := openClient(context.Background())
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Verifying %d files...\n", len(args))

	var errCount int
	var total cypher.Summary
	for i, path := range args {
		if verbose {
			fmt.Printf("  [%d/%d] %s\n", i+1, len(args), path)
		}

		data, err := readInput(path)
		if err != nil {
			fmt.Printf("  ERROR: %s: %v\n", path, err)
			errCount++
			continue
		}
		if verifyQuick {
			data = truncateRunes(data, quickBytes)
		}

		s, err := verifyRoundTrip(client, data)
		if err != nil {
			fmt.Printf("  ERROR: %s: %v\n", path, err)
			errCount++
			continue
		}
		total = total.Add(s)
	}

	if errCount > 0 {
		return fmt.Errorf("%d files failed verification", errCount)
	}

	fmt.Println("All files verified successfully.")
	fmt.Printf("  %s\n", total)
	return nil
}

func verifyRoundTrip(client *cypher.Client, data []byte) (cypher.Summary, error) {
	tokens, err := client.Encode(string(data))
	if err != nil {
		return cypher.Summary{}, err
	}
	serialized, err := cypher.MarshalTokens(tokens)
	if err != nil {
		return cypher.Summary{}, fmt.Errorf("serializing: %w", err)
	}
	parsed, err := cypher.UnmarshalTokens(serialized)
	if err != nil {
		return cypher.Summary{}, fmt.Errorf("parsing: %w", err)
	}
	text, err := client.Decode(parsed)
	if err != nil {
		return cypher.Summary{}, err
	}
	if !bytes.Equal([]byte(text), data) {
		return cypher.Summary{}, fmt.Errorf("round trip differs at byte %d", firstDiff([]byte(text), data))
	}
	return cypher.Summarize(tokens), nil
}

// truncateRunes cuts data to at most n bytes without splitting a rune.
func truncateRunes(data []byte, n int) []byte {
	if len(data) <= n {
		return data
	}
	data = data[:n]
	for i := 0; i < utf8.UTFMax && len(data) > 0; i++ {
		r, size := utf8.DecodeLastRune(data)
		if r != utf8.RuneError || size > 1 {
			break
		}
		data = data[:len(data)-1]
	}
	return data
}

func firstDiff(a, b []byte) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return i
		}
	}
	return min(len(a), len(b))
}
