// Package reporting provides report generation for benchmark results.
package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/50shades0fGraei/cypher/benchmark/analysis"
	"github.com/50shades0fGraei/cypher/benchmark/measure"
)

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w   io.Writer
	now func() time.Time
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w, now: time.Now}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", r.now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(documents, inputBytes int) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Documents encoded:** %d\n", documents)
	fmt.Fprintf(r.w, "- **Input size:** %d bytes\n", inputBytes)
	fmt.Fprintln(r.w, "- **Metric:** Letter-bearing tokens per letter (lower is better)")
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes the summary comparison table, one row per
// dictionary in name order.
func (r *MarkdownReport) WriteSummaryTable(results map[string]*measure.AggregateResult) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Dictionary | Syllables | Tokens/Letter | Median | Coverage | Bytes/Input | Utilization |")
	fmt.Fprintln(r.w, "|------------|-----------|---------------|--------|----------|-------------|-------------|")

	for _, name := range sortedNames(results) {
		res := results[name]
		metrics := measure.ComputeMetrics(res)
		fmt.Fprintf(r.w, "| %s | %d | %.3f | %.3f | %.1f%% | %.2f | %.1f%% |\n",
			name, res.Syllables, metrics.AvgTokensPerLetter, metrics.MedianTokensPerLetter,
			metrics.Coverage, metrics.BytesPerInput, metrics.Utilization)
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section.
func (r *MarkdownReport) WriteComparison(comp *analysis.DictionaryComparison) {
	fmt.Fprintf(r.w, "## %s vs %s\n\n", comp.Dictionary1, comp.Dictionary2)

	fmt.Fprintln(r.w, "### Descriptive Statistics")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Metric | "+comp.Dictionary1+" | "+comp.Dictionary2+" |")
	fmt.Fprintln(r.w, "|--------|"+strings.Repeat("-", len(comp.Dictionary1)+2)+"|"+strings.Repeat("-", len(comp.Dictionary2)+2)+"|")
	fmt.Fprintf(r.w, "| Mean | %.3f | %.3f |\n", comp.Stats1.Mean, comp.Stats2.Mean)
	fmt.Fprintf(r.w, "| Median | %.3f | %.3f |\n", comp.Stats1.Median, comp.Stats2.Median)
	fmt.Fprintf(r.w, "| Std Dev | %.3f | %.3f |\n", comp.Stats1.StdDev, comp.Stats2.StdDev)
	fmt.Fprintf(r.w, "| Min | %.3f | %.3f |\n", comp.Stats1.Min, comp.Stats2.Min)
	fmt.Fprintf(r.w, "| Max | %.3f | %.3f |\n", comp.Stats1.Max, comp.Stats2.Max)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Statistical Analysis")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintf(r.w, "- **%.0f%% CI for mean difference:** [%.4f, %.4f]\n",
		comp.BootstrapCI.Confidence*100, comp.BootstrapCI.LowerBound, comp.BootstrapCI.UpperBound)
	fmt.Fprintln(r.w)

	fmt.Fprintln(r.w, "### Conclusion")
	fmt.Fprintln(r.w)
	if comp.WinnerConfident {
		fmt.Fprintf(r.w, "**%s** needs significantly fewer tokens per letter than %s ",
			comp.Winner, otherDictionary(comp.Winner, comp.Dictionary1, comp.Dictionary2))
		fmt.Fprintf(r.w, "(p < 0.05, effect size: %s).\n", comp.EffectSize.Interpretation)
	} else {
		fmt.Fprintln(r.w, "No statistically significant difference detected between dictionaries (p >= 0.05).")
	}
	fmt.Fprintln(r.w)
}

func otherDictionary(winner, d1, d2 string) string {
	if winner == d1 {
		return d2
	}
	return d1
}

// WriteDistributionChart writes an ASCII histogram of data.
func (r *MarkdownReport) WriteDistributionChart(name string, data []float64) {
	const buckets = 10
	fmt.Fprintf(r.w, "### %s Distribution\n\n", name)
	fmt.Fprintln(r.w, "```")

	hist, lo, width := makeHistogram(data, buckets)
	maxCount := 0
	for _, count := range hist {
		maxCount = max(maxCount, count)
	}

	const barWidth = 40
	for i, count := range hist {
		barLen := 0
		if maxCount > 0 {
			barLen = count * barWidth / maxCount
		}
		bar := strings.Repeat("█", barLen)
		from := lo + float64(i)*width
		fmt.Fprintf(r.w, "%.3f-%.3f │ %s %d\n", from, from+width, bar, count)
	}

	fmt.Fprintln(r.w, "```")
	fmt.Fprintln(r.w)
}

// makeHistogram counts data into equal-width buckets and returns the
// counts, the lower edge and the bucket width.
func makeHistogram(data []float64, buckets int) ([]int, float64, float64) {
	hist := make([]int, buckets)
	if len(data) == 0 {
		return hist, 0, 0
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	width := (hi - lo) / float64(buckets)
	if width == 0 {
		hist[0] = len(data)
		return hist, lo, 0
	}

	for _, v := range data {
		bucket := int((v - lo) / width)
		if bucket >= buckets {
			bucket = buckets - 1
		}
		hist[bucket]++
	}
	return hist, lo, width
}

func sortedNames(results map[string]*measure.AggregateResult) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by cypher-bench*")
}
