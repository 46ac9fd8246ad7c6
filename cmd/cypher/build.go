package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher/internal/builder"
	"github.com/50shades0fGraei/cypher/internal/codec/codecs"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a dictionary data directory",
	Long: `Build a dictionary data directory from a syllable source.

This command will:
1. Load the syllables (generated, a local file or an http(s) URL)
2. Normalize them: trim, lower-case, drop duplicates and comments
3. Write the compressed syllable list and manifest.json

Local sources ending in .zst or .gz are decompressed first.

Examples:
  # Build from the generated consonant/vowel set
  cypher build --output ./data

  # Build from a local syllable list
  cypher build --source ./syllables.txt.gz --output ./data

  # Build and upload to GCS or S3 (for cronjobs)
  cypher build --output-gcs gs://my-bucket/cypher
  cypher build --output-s3 s3://my-bucket/cypher`,
	RunE: runBuild,
}

var (
	buildSource      string
	buildOutput      string
	buildCompression string
	buildOutputGCS   string
	buildOutputS3    string
)

func init() {
	buildCmd.Flags().StringVar(&buildSource, "source", builder.SourceGenerated, `syllable source: "generated", a local file or a URL`)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output directory (default: --data-dir)")
	buildCmd.Flags().StringVar(&buildCompression, "compression", "zstd", "syllable list compression: "+strings.Join(codecs.Names, ", "))
	buildCmd.Flags().StringVar(&buildOutputGCS, "output-gcs", "", "GCS location for output (gs://bucket/prefix)")
	buildCmd.Flags().StringVar(&buildOutputS3, "output-s3", "", "S3 location for output (s3://bucket/prefix)")
	buildCmd.MarkFlagsMutuallyExclusive("output", "output-gcs", "output-s3")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	c, err := codecs.Lookup(buildCompression)
	if err != nil {
		return err
	}

	output := buildOutput
	switch {
	case buildOutputGCS != "":
		output = buildOutputGCS
	case buildOutputS3 != "":
		output = buildOutputS3
	case output == "":
		output = dataDir
	}

	// Setup context with cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := openStore(ctx, output, true)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer st.Close()

	b := builder.NewBuilder(
		builder.WithSource(buildSource),
		builder.WithCodec(c),
		builder.WithProgress(builder.DefaultProgressFunc),
		builder.WithLogger(logger.Named("builder")),
	)

	fmt.Printf("Building cypher dictionary\n")
	fmt.Printf("  Source:      %s\n", buildSource)
	fmt.Printf("  Output:      %s\n", output)
	fmt.Printf("  Compression: %s\n", c.Name())
	fmt.Println()

	m, err := b.Build(ctx, st)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nInterrupted")
	}
	if err != nil {
		return err
	}

	fmt.Printf("  Fingerprint: %s\n", m.Fingerprint)
	return nil
}
