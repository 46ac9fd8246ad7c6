package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode text into tokens",
	Long: `Encode text into syllable and letter tokens.

Tokens are written as JSON Lines, one record per token. Output files ending
in .zst or .gz are compressed. With --archive the text is stored in the data
directory instead, split into compressed chunks.

Examples:
  # Encode stdin to stdout
  echo "Hello world" | cypher encode

  # Encode a file into a compressed token file
  cypher encode --input notes.txt --output notes.jsonl.zst

  # Archive a file under a name
  cypher encode --input notes.txt --archive notes`,
	RunE: runEncode,
}

var (
	encodeInput   string
	encodeOutput  string
	encodeArchive string
)

func init() {
	encodeCmd.Flags().StringVarP(&encodeInput, "input", "i", "", "text file to encode (default: stdin)")
	encodeCmd.Flags().StringVarP(&encodeOutput, "output", "o", "", "token file to write (default: stdout)")
	encodeCmd.Flags().StringVar(&encodeArchive, "archive", "", "store the text as a named archive")
	encodeCmd.MarkFlagsMutuallyExclusive("output", "archive")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	text, err := readInput(encodeInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if encodeArchive != "" {
		info, err := client.Archive(ctx, encodeArchive, string(text))
		if err != nil {
			return err
		}
		fmt.Printf("Archived %s (%s)\n", info.Name, info.ID)
		fmt.Printf("  Chunks:  %d\n", info.Chunks)
		fmt.Printf("  Summary: %s\n", info.Summary)
		return nil
	}

	tokens, err := client.Encode(string(text))
	if err != nil {
		return err
	}
	data, err := cypher.MarshalTokens(tokens)
	if err != nil {
		return err
	}
	if err := writeOutput(encodeOutput, data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if encodeOutput != "" && encodeOutput != "-" {
		fmt.Fprintf(os.Stderr, "%s\n", cypher.Summarize(tokens))
	}
	return nil
}
