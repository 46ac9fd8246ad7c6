// Package analysis provides statistical analysis for benchmark results.
package analysis

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultSeed seeds bootstrap resampling so reports are reproducible.
const DefaultSeed = 1

// MannWhitneyResult contains the result of a Mann-Whitney U test.
type MannWhitneyResult struct {
	U           float64 // U statistic.
	Z           float64 // Z score (normal approximation).
	PValue      float64 // Two-tailed p-value.
	Significant bool    // True if p < 0.05.
}

// MannWhitneyU performs the Mann-Whitney U test on two samples.
// This is a non-parametric test to determine if two samples come from
// different distributions.
func MannWhitneyU(sample1, sample2 []float64) *MannWhitneyResult {
	n1 := float64(len(sample1))
	n2 := float64(len(sample2))

	if n1 == 0 || n2 == 0 {
		return &MannWhitneyResult{}
	}

	type rankedValue struct {
		value  float64
		sample int // 1 or 2
	}

	combined := make([]rankedValue, 0, len(sample1)+len(sample2))
	for _, v := range sample1 {
		combined = append(combined, rankedValue{value: v, sample: 1})
	}
	for _, v := range sample2 {
		combined = append(combined, rankedValue{value: v, sample: 2})
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].value < combined[j].value
	})

	// Assign ranks, averaging ties.
	var r1 float64
	for i := 0; i < len(combined); {
		j := i
		for j < len(combined) && combined[j].value == combined[i].value {
			j++
		}
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if combined[k].sample == 1 {
				r1 += avgRank
			}
		}
		i = j
	}

	u1 := r1 - n1*(n1+1)/2
	u2 := n1*n2 - u1
	u := math.Min(u1, u2)

	// Normal approximation.
	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12)

	z := 0.0
	if sigma > 0 {
		z = (u - mu) / sigma
	}

	pValue := 2 * normalCDF(-math.Abs(z))

	return &MannWhitneyResult{
		U:           u,
		Z:           z,
		PValue:      pValue,
		Significant: pValue < 0.05,
	}
}

// normalCDF computes the cumulative distribution function of the standard normal.
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// EffectSize contains effect size metrics.
type EffectSize struct {
	CohensD        float64 // (mean1 - mean2) / pooled std.
	Interpretation string  // "negligible", "small", "medium", "large".
}

// ComputeEffectSize computes Cohen's d effect size.
func ComputeEffectSize(sample1, sample2 []float64) *EffectSize {
	if len(sample1) < 2 || len(sample2) < 2 {
		return &EffectSize{Interpretation: "undefined"}
	}

	mean1, std1 := stat.MeanStdDev(sample1, nil)
	mean2, std2 := stat.MeanStdDev(sample2, nil)

	n1 := float64(len(sample1))
	n2 := float64(len(sample2))
	pooledVar := ((n1-1)*std1*std1 + (n2-1)*std2*std2) / (n1 + n2 - 2)
	pooledStd := math.Sqrt(pooledVar)

	var d float64
	if pooledStd > 0 {
		d = (mean1 - mean2) / pooledStd
	}

	return &EffectSize{
		CohensD:        d,
		Interpretation: interpretCohensD(math.Abs(d)),
	}
}

func interpretCohensD(d float64) string {
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// BootstrapResult is a bootstrap confidence interval for the mean difference.
type BootstrapResult struct {
	MeanDiff   float64
	LowerBound float64
	UpperBound float64
	Confidence float64 // e.g., 0.95 for 95% CI.
}

// BootstrapConfidenceInterval computes a percentile bootstrap confidence
// interval for mean(sample1) - mean(sample2). Resampling draws from a
// generator seeded with seed.
func BootstrapConfidenceInterval(sample1, sample2 []float64, iterations int, confidence float64, seed int64) *BootstrapResult {
	if len(sample1) == 0 || len(sample2) == 0 || iterations < 1 {
		return &BootstrapResult{Confidence: confidence}
	}

	rng := rand.New(rand.NewSource(seed))
	actualDiff := stat.Mean(sample1, nil) - stat.Mean(sample2, nil)

	diffs := make([]float64, iterations)
	buf1 := make([]float64, len(sample1))
	buf2 := make([]float64, len(sample2))
	for i := range diffs {
		resample(rng, sample1, buf1)
		resample(rng, sample2, buf2)
		diffs[i] = stat.Mean(buf1, nil) - stat.Mean(buf2, nil)
	}
	sort.Float64s(diffs)

	alpha := 1 - confidence
	return &BootstrapResult{
		MeanDiff:   actualDiff,
		LowerBound: stat.Quantile(alpha/2, stat.Empirical, diffs, nil),
		UpperBound: stat.Quantile(1-alpha/2, stat.Empirical, diffs, nil),
		Confidence: confidence,
	}
}

// resample fills dst by drawing from sample with replacement.
func resample(rng *rand.Rand, sample, dst []float64) {
	for i := range dst {
		dst[i] = sample[rng.Intn(len(sample))]
	}
}

// DescriptiveStats contains basic descriptive statistics.
type DescriptiveStats struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P25    float64
	P75    float64
}

// Describe computes descriptive statistics for a sample.
func Describe(sample []float64) *DescriptiveStats {
	if len(sample) == 0 {
		return &DescriptiveStats{}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	d := &DescriptiveStats{
		N:      len(sample),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	if len(sample) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}
