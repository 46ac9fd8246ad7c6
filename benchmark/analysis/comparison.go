package analysis

import (
	"fmt"
	"sort"

	"github.com/50shades0fGraei/cypher/benchmark/measure"
)

// DictionaryComparison contains a full statistical comparison of tokens
// per letter between two dictionaries.
type DictionaryComparison struct {
	Dictionary1     string
	Dictionary2     string
	Stats1          *DescriptiveStats
	Stats2          *DescriptiveStats
	MannWhitney     *MannWhitneyResult
	EffectSize      *EffectSize
	BootstrapCI     *BootstrapResult
	Winner          string // Name of the dictionary with fewer tokens per letter, or "tie".
	WinnerConfident bool   // True if statistically significant.
}

// CompareDictionaries performs a full statistical comparison between two
// dictionaries.
func CompareDictionaries(
	result1, result2 *measure.AggregateResult,
	bootstrapIterations int,
	confidence float64,
	seed int64,
) *DictionaryComparison {
	sample1 := result1.TokensPerLetter
	sample2 := result2.TokensPerLetter

	stats1 := Describe(sample1)
	stats2 := Describe(sample2)
	mw := MannWhitneyU(sample1, sample2)

	winner := "tie"
	var confident bool
	switch {
	case stats1.Mean < stats2.Mean:
		winner = result1.DictionaryName
		confident = mw.Significant
	case stats2.Mean < stats1.Mean:
		winner = result2.DictionaryName
		confident = mw.Significant
	}

	return &DictionaryComparison{
		Dictionary1:     result1.DictionaryName,
		Dictionary2:     result2.DictionaryName,
		Stats1:          stats1,
		Stats2:          stats2,
		MannWhitney:     mw,
		EffectSize:      ComputeEffectSize(sample1, sample2),
		BootstrapCI:     BootstrapConfidenceInterval(sample1, sample2, bootstrapIterations, confidence, seed),
		Winner:          winner,
		WinnerConfident: confident,
	}
}

// Summary returns a human-readable summary of the comparison.
func (c *DictionaryComparison) Summary() string {
	sig := "not statistically significant"
	if c.MannWhitney.Significant {
		sig = fmt.Sprintf("statistically significant (p=%.4f)", c.MannWhitney.PValue)
	}

	return fmt.Sprintf(
		"%s vs %s:\n"+
			"  %s: mean=%.4f, median=%.4f, std=%.4f\n"+
			"  %s: mean=%.4f, median=%.4f, std=%.4f\n"+
			"  Difference: %.4f tokens/letter (%.1f%%)\n"+
			"  Effect size: %.2f (%s)\n"+
			"  Result: %s, %s",
		c.Dictionary1, c.Dictionary2,
		c.Dictionary1, c.Stats1.Mean, c.Stats1.Median, c.Stats1.StdDev,
		c.Dictionary2, c.Stats2.Mean, c.Stats2.Median, c.Stats2.StdDev,
		c.Stats1.Mean-c.Stats2.Mean,
		safePctDiff(c.Stats1.Mean, c.Stats2.Mean),
		c.EffectSize.CohensD, c.EffectSize.Interpretation,
		c.Winner, sig,
	)
}

func safePctDiff(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return (a - b) / b * 100
}

// MultiComparison compares several dictionaries against a baseline.
type MultiComparison struct {
	Baseline    string
	Comparisons []*DictionaryComparison
}

// CompareAll compares every dictionary against baseline, in name order.
// It returns nil if baseline has no results.
func CompareAll(
	results map[string]*measure.AggregateResult,
	baseline string,
	bootstrapIterations int,
	confidence float64,
	seed int64,
) *MultiComparison {
	baseResult, ok := results[baseline]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(results))
	for name := range results {
		if name != baseline {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	multi := &MultiComparison{Baseline: baseline}
	for _, name := range names {
		comp := CompareDictionaries(baseResult, results[name], bootstrapIterations, confidence, seed)
		multi.Comparisons = append(multi.Comparisons, comp)
	}
	return multi
}
