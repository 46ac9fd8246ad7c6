package main

import (
	"fmt"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher/internal/stats"
	statslogger "github.com/50shades0fGraei/cypher/internal/stats/logger"
	"github.com/50shades0fGraei/cypher/internal/stats/prometheus"
)

// dataDirEnv overrides the default data directory.
const dataDirEnv = "CYPHER_DATA"

var (
	// Global flags.
	dataDir     string
	verbose     bool
	metricsFile string

	// Set up by the root command before any subcommand runs.
	logger    *zap.Logger     = zap.NewNop()
	collector stats.Collector = stats.NewNoop()
	registry  *promclient.Registry
)

var rootCmd = &cobra.Command{
	Use:   "cypher",
	Short: "Reversible syllable cypher for text",
	Long: `Cypher encodes text into syllable and letter tokens using a syllable
dictionary, and decodes the tokens back into the exact original text.

The data directory holds a built dictionary (manifest.json plus the
syllable list) and any archives written with --archive. It may also be a
gs://bucket/prefix or s3://bucket/prefix location.

Examples:
  # Build a data directory from the generated syllable set
  cypher build --output ./data

  # Encode a file into a token file
  cypher encode --input notes.txt --output notes.jsonl.zst

  # Archive a file and restore it
  cypher encode --input notes.txt --archive notes
  cypher decode --archive notes

  # Show the record of a syllable
  cypher lookup the`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger = l
			collector = statslogger.New(logger.Named("stats"))
		}
		if metricsFile != "" {
			registry = promclient.NewRegistry()
			collector = prometheus.New(registry)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logger.Sync()
		if registry != nil {
			if err := promclient.WriteToTextfile(metricsFile, registry); err != nil {
				return fmt.Errorf("writing metrics: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", defaultDataDir(), "data directory, gs:// or s3:// location (env "+dataDirEnv+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
}

func defaultDataDir() string {
	if dir := os.Getenv(dataDirEnv); dir != "" {
		return dir
	}
	return "./data"
}
