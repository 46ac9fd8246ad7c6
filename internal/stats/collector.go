// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Codec metrics.
	MetricEncodes        = "cypher_encodes_total"
	MetricDecodes        = "cypher_decodes_total"
	MetricDecodeFailures = "cypher_decode_failures_total"
	MetricSyllableTokens = "cypher_syllable_tokens_total"
	MetricLiteralTokens  = "cypher_literal_tokens_total"
	MetricUnsupported    = "cypher_unsupported_characters_total"
	MetricEncodeDuration = "cypher_encode_duration_seconds"
	MetricDecodeDuration = "cypher_decode_duration_seconds"

	// Archive metrics.
	MetricArchives    = "cypher_archives_total"
	MetricRestores    = "cypher_restores_total"
	MetricChunkWrites = "cypher_chunk_writes_total"
	MetricChunkReads  = "cypher_chunk_reads_total"

	// Dictionary metrics.
	MetricDictionarySyllables = "cypher_dictionary_syllables"

	// Cache metrics.
	MetricCacheHits      = "cypher_cache_hits_total"
	MetricCacheMisses    = "cypher_cache_misses_total"
	MetricCacheEvictions = "cypher_cache_evictions_total"
	MetricCacheSize      = "cypher_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}

// Noop is a no-op collector that discards all metrics.
type Noop struct{}

// Compile-time check that Noop implements Collector.
var _ Collector = (*Noop)(nil)

// NewNoop creates a new no-op collector.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncCounter(name string, delta int64)         {}
func (n *Noop) SetGauge(name string, value int64)           {}
func (n *Noop) ObserveHistogram(name string, value float64) {}
