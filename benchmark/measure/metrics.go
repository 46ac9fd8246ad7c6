package measure

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics contains computed metrics from measurement results.
type Metrics struct {
	// Core metrics.
	Documents       int
	TotalTokens     int
	Coverage        float64 // Letters covered by syllables, percent.
	BytesPerInput   float64 // Serialized bytes per input byte.
	UniqueSyllables int
	Utilization     float64

	// Distribution of tokens per letter across documents (lower is better).
	AvgTokensPerLetter    float64
	MedianTokensPerLetter float64
	P90TokensPerLetter    float64

	// Syllable usage metrics.
	SyllableConcentration float64 // Gini coefficient of syllable usage.
	TopSyllablePct        float64 // Percentage of matches by the top 10% of used syllables.
}

// ComputeMetrics computes detailed metrics from aggregate results.
func ComputeMetrics(result *AggregateResult) *Metrics {
	m := &Metrics{
		Documents:       result.Documents,
		TotalTokens:     result.Summary.Tokens,
		Coverage:        result.Summary.Coverage() * 100,
		UniqueSyllables: result.UniqueSyllables,
		Utilization:     result.Utilization(),
	}
	if result.InputBytes > 0 {
		m.BytesPerInput = float64(result.SerializedBytes) / float64(result.InputBytes)
	}

	if len(result.TokensPerLetter) > 0 {
		sorted := make([]float64, len(result.TokensPerLetter))
		copy(sorted, result.TokensPerLetter)
		sort.Float64s(sorted)

		m.AvgTokensPerLetter = stat.Mean(sorted, nil)
		m.MedianTokensPerLetter = stat.Quantile(0.5, stat.Empirical, sorted, nil)
		m.P90TokensPerLetter = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	}

	if len(result.SyllableHits) > 0 {
		m.SyllableConcentration = computeGini(result.SyllableHits)
		m.TopSyllablePct = computeTopPct(result.SyllableHits, 0.1)
	}

	return m
}

func computeGini(hits map[int]int) float64 {
	if len(hits) == 0 {
		return 0
	}

	// Extract values and sort.
	values := make([]int, 0, len(hits))
	for _, v := range hits {
		values = append(values, v)
	}
	sort.Ints(values)

	n := float64(len(values))
	var sum, cumulativeSum float64
	for i, v := range values {
		sum += float64(v)
		cumulativeSum += float64(i+1) * float64(v)
	}

	if sum == 0 {
		return 0
	}

	return (2*cumulativeSum)/(n*sum) - (n+1)/n
}

func computeTopPct(hits map[int]int, topFraction float64) float64 {
	counts := make([]int, 0, len(hits))
	var total int
	for _, h := range hits {
		counts = append(counts, h)
		total += h
	}
	if total == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	topCount := int(float64(len(counts)) * topFraction)
	if topCount < 1 {
		topCount = 1
	}

	var topHits int
	for _, h := range counts[:topCount] {
		topHits += h
	}
	return float64(topHits) / float64(total) * 100
}
