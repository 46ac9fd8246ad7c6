// Package main provides the cypher-bench CLI tool for comparing syllable
// dictionaries on a real text corpus.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/50shades0fGraei/cypher"
	"github.com/50shades0fGraei/cypher/benchmark/analysis"
	"github.com/50shades0fGraei/cypher/benchmark/corpus"
	"github.com/50shades0fGraei/cypher/benchmark/measure"
	"github.com/50shades0fGraei/cypher/benchmark/reporting"
	"github.com/50shades0fGraei/cypher/internal/dictionary"
)

var (
	corpusFile      string
	dictionaryNames []string
	baseline        string
	iterations      int
	seed            int64
	outputFormat    string
	outputFile      string
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "cypher-bench",
	Short: "Benchmark syllable dictionaries for cypher",
	Long: `cypher-bench compares syllable dictionaries on a text corpus.

Every document of the corpus is encoded with each dictionary, and the
number of letter-bearing tokens per letter is compared across dictionaries.
Fewer tokens per letter means the dictionary covers the text better.

Dictionaries are named "generated" (the built-in dictionary), "none" (no
syllables at all) or a path to a syllable list (.gz and .zst supported).

Examples:
  # Compare the built-in dictionary against no dictionary
  cypher-bench run --corpus books.txt

  # Compare a custom list against the built-in dictionary
  cypher-bench run --corpus books.txt.zst --dictionaries generated,syllables.txt

  # Output as markdown report
  cypher-bench run --corpus books.txt --format markdown --output report.md`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark",
	RunE:  runBenchmark,
}

func init() {
	runCmd.Flags().StringVarP(&corpusFile, "corpus", "c", "", "text corpus, documents separated by blank lines (supports .gz, .zst)")
	runCmd.Flags().StringSliceVarP(&dictionaryNames, "dictionaries", "d", []string{"none", "generated"}, "dictionaries to compare")
	runCmd.Flags().StringVar(&baseline, "baseline", "", "dictionary the others are compared against (default: first)")
	runCmd.Flags().IntVar(&iterations, "iterations", 10000, "bootstrap iterations")
	runCmd.Flags().Int64Var(&seed, "seed", analysis.DefaultSeed, "bootstrap random seed")
	runCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, markdown")
	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	runCmd.MarkFlagRequired("corpus")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "markdown" {
		return fmt.Errorf("unknown format %q", outputFormat)
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Loading corpus...")
	}
	docs, err := corpus.Load(corpusFile)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found in %s", corpusFile)
	}

	dicts := make([]measure.Dictionary, 0, len(dictionaryNames))
	for _, name := range dictionaryNames {
		d, err := loadDictionary(name)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Dictionary %s: %d syllables\n", d.Name, d.Cypher.Dictionary().Len())
		}
		dicts = append(dicts, d)
	}
	if len(dicts) == 0 {
		return fmt.Errorf("no dictionaries given")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Encoding %d documents...\n", len(docs))
	}
	results, err := measure.NewMeasurer(dicts...).MeasureDocuments(docs)
	if err != nil {
		return fmt.Errorf("measuring: %w", err)
	}

	base := baseline
	if base == "" {
		base = dicts[0].Name
	}
	var comparison *analysis.MultiComparison
	if len(dicts) >= 2 {
		comparison = analysis.CompareAll(results, base, iterations, 0.95, seed)
		if comparison == nil {
			return fmt.Errorf("unknown baseline %q", base)
		}
	}

	var output io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if outputFormat == "markdown" {
		return writeMarkdownReport(output, docs, results, comparison)
	}
	return writeTextReport(output, docs, results, comparison)
}

// loadDictionary resolves a dictionary name to a cypher.
func loadDictionary(name string) (measure.Dictionary, error) {
	switch strings.ToLower(name) {
	case "generated":
		return measure.Dictionary{Name: "generated", Cypher: cypher.NewCypher(cypher.DefaultDictionary())}, nil
	case "none":
		return measure.Dictionary{Name: "none", Cypher: cypher.NewCypher(cypher.NewDictionary(nil))}, nil
	}

	rc, err := corpus.Open(name)
	if err != nil {
		return measure.Dictionary{}, fmt.Errorf("opening dictionary: %w", err)
	}
	defer rc.Close()

	syllables, err := dictionary.Parse(rc)
	if err != nil {
		return measure.Dictionary{}, fmt.Errorf("parsing dictionary %s: %w", name, err)
	}
	return measure.Dictionary{
		Name:   dictionaryLabel(name),
		Cypher: cypher.NewCypher(cypher.NewDictionary(syllables)),
	}, nil
}

// dictionaryLabel returns the file name of path without extensions.
func dictionaryLabel(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

func inputBytes(docs []string) int {
	var n int
	for _, d := range docs {
		n += len(d)
	}
	return n
}

func writeTextReport(w io.Writer, docs []string, results map[string]*measure.AggregateResult, comp *analysis.MultiComparison) error {
	fmt.Fprintf(w, "Cypher Dictionary Benchmark\n")
	fmt.Fprintf(w, "===========================\n\n")
	fmt.Fprintf(w, "Documents: %d\n", len(docs))
	fmt.Fprintf(w, "Input: %d bytes\n\n", inputBytes(docs))

	fmt.Fprintf(w, "Results:\n")
	fmt.Fprintf(w, "--------\n\n")

	for _, name := range dictionaryOrder(results) {
		res := results[name]
		metrics := measure.ComputeMetrics(res)
		fmt.Fprintf(w, "%s (%d syllables):\n", name, res.Syllables)
		fmt.Fprintf(w, "  Avg tokens/letter:  %.3f\n", metrics.AvgTokensPerLetter)
		fmt.Fprintf(w, "  Median:             %.3f\n", metrics.MedianTokensPerLetter)
		fmt.Fprintf(w, "  P90:                %.3f\n", metrics.P90TokensPerLetter)
		fmt.Fprintf(w, "  Coverage:           %.1f%%\n", metrics.Coverage)
		fmt.Fprintf(w, "  Bytes/input byte:   %.2f\n", metrics.BytesPerInput)
		fmt.Fprintf(w, "  Utilization:        %.1f%%\n", metrics.Utilization)
		fmt.Fprintf(w, "  Top 10%% syllables:  %.1f%% of matches\n\n", metrics.TopSyllablePct)
	}

	if comp != nil {
		fmt.Fprintf(w, "Statistical Analysis:\n")
		fmt.Fprintf(w, "---------------------\n\n")
		for _, c := range comp.Comparisons {
			fmt.Fprintln(w, c.Summary())
			fmt.Fprintln(w)
		}
	}

	return nil
}

func writeMarkdownReport(w io.Writer, docs []string, results map[string]*measure.AggregateResult, comp *analysis.MultiComparison) error {
	report := reporting.NewMarkdownReport(w)
	report.WriteHeader("Cypher Dictionary Benchmark")
	report.WriteMethodology(len(docs), inputBytes(docs))
	report.WriteSummaryTable(results)

	if comp != nil {
		for _, c := range comp.Comparisons {
			report.WriteComparison(c)
		}
	}
	for _, name := range dictionaryOrder(results) {
		report.WriteDistributionChart(name+" Tokens/Letter", results[name].TokensPerLetter)
	}

	report.WriteFooter()
	return nil
}

// dictionaryOrder returns result names in the order they were given on the
// command line.
func dictionaryOrder(results map[string]*measure.AggregateResult) []string {
	names := make([]string, 0, len(results))
	for _, name := range dictionaryNames {
		label := strings.ToLower(name)
		if label != "generated" && label != "none" {
			label = dictionaryLabel(name)
		}
		if _, ok := results[label]; ok && !slices.Contains(names, label) {
			names = append(names, label)
		}
	}
	return names
}
