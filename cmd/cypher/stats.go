package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher"
	"github.com/50shades0fGraei/cypher/internal/builder"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about the data directory or encoded text",
	Long: `Display statistics about the data directory including:
- Dictionary size, fingerprint and compression
- Archives stored in the data directory

With --input or --archive, summarize a token file or archive instead.`,
	RunE: runStats,
}

var (
	statsInput   string
	statsArchive string
)

func init() {
	statsCmd.Flags().StringVarP(&statsInput, "input", "i", "", "token file to summarize")
	statsCmd.Flags().StringVar(&statsArchive, "archive", "", "archive to summarize")
	statsCmd.MarkFlagsMutuallyExclusive("input", "archive")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	switch {
	case statsInput != "":
		return tokenFileStats(statsInput)
	case statsArchive != "":
		return archiveStats(statsArchive)
	default:
		return dataDirStats()
	}
}

func tokenFileStats(path string) error {
	data, err := readInput(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	tokens, err := cypher.UnmarshalTokens(data)
	if err != nil {
		return err
	}
	printSummary(cypher.Summarize(tokens))
	return nil
}

func archiveStats(name string) error {
	ctx := context.Background()
	client, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	info, err := client.Stat(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Archive:     %s\n", info.Name)
	fmt.Printf("ID:          %s\n", info.ID)
	fmt.Printf("Created:     %s\n", info.Created.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Fingerprint: %s\n", info.Fingerprint)
	fmt.Printf("Compression: %s\n", info.Compression)
	fmt.Printf("Chunks:      %d (%s)\n", info.Chunks, info.ChunkStrategy)
	fmt.Printf("Input size:  %s\n", builder.FormatBytes(info.InputBytes))
	printSummary(info.Summary)
	return nil
}

func dataDirStats() error {
	ctx := context.Background()
	st, err := openStore(ctx, dataDir, false)
	if errors.Is(err, errNoDataDir) {
		return fmt.Errorf("data directory %q does not exist; run 'cypher build' first", dataDir)
	}
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := builder.ReadManifest(ctx, st)
	if errors.Is(err, builder.ErrNoManifest) {
		fmt.Println("No dictionary found in data directory.")
		fmt.Println("Run 'cypher build' to create one.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Printf("Syllables:      %d\n", m.Syllables)
	fmt.Printf("Fingerprint:    %s\n", m.Fingerprint)
	fmt.Printf("Compression:    %s\n", m.Compression)
	fmt.Printf("Built:          %s\n", m.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	if m.Source != "" {
		fmt.Printf("Source:         %s\n", m.Source)
	}

	client, err := cypher.New(cypher.WithStore(st))
	if err != nil {
		return err
	}
	names, err := client.List(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Archives:       %d\n", len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func printSummary(s cypher.Summary) {
	fmt.Printf("Tokens:      %d\n", s.Tokens)
	fmt.Printf("Syllables:   %d\n", s.Syllables)
	fmt.Printf("Literals:    %d (%d unsupported)\n", s.Literals, s.Unsupported)
	fmt.Printf("Breaks:      %d words, %d lines\n", s.WordBreaks, s.LineBreaks)
	fmt.Printf("Coverage:    %.1f%%\n", s.Coverage()*100)
	fmt.Printf("Tokens/char: %.3f\n", s.TokensPerLetter())
}
