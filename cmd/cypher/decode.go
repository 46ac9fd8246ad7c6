package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode tokens back into text",
	Long: `Decode a token file or a named archive back into the original text.

Examples:
  # Decode a token file
  cypher decode --input notes.jsonl.zst --output notes.txt

  # Restore an archive to stdout
  cypher decode --archive notes`,
	RunE: runDecode,
}

var (
	decodeInput   string
	decodeOutput  string
	decodeArchive string
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeInput, "input", "i", "", "token file to decode (default: stdin)")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "text file to write (default: stdout)")
	decodeCmd.Flags().StringVar(&decodeArchive, "archive", "", "restore the named archive")
	decodeCmd.MarkFlagsMutuallyExclusive("input", "archive")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	var text string
	if decodeArchive != "" {
		text, err = client.Restore(ctx, decodeArchive)
		if errors.Is(err, cypher.ErrDictionaryMismatch) {
			return fmt.Errorf("%w; decode with the data directory the archive was written with", err)
		}
		if err != nil {
			return err
		}
	} else {
		data, err := readInput(decodeInput)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		tokens, err := cypher.UnmarshalTokens(data)
		if err != nil {
			return err
		}
		text, err = client.Decode(tokens)
		if err != nil {
			return err
		}
	}

	if err := writeOutput(decodeOutput, []byte(text)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
