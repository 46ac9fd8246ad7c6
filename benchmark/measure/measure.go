// Package measure encodes benchmark documents with several dictionaries and
// records how compactly each one represents them.
package measure

import (
	"fmt"

	"github.com/50shades0fGraei/cypher"
)

// Dictionary is a named cypher under test.
type Dictionary struct {
	Name   string
	Cypher *cypher.Cypher
}

// Measurer encodes documents with each dictionary.
type Measurer struct {
	dicts []Dictionary
}

// NewMeasurer creates a new Measurer for the given dictionaries.
func NewMeasurer(dicts ...Dictionary) *Measurer {
	return &Measurer{dicts: dicts}
}

// MeasureDocument encodes a single document with every dictionary.
func (m *Measurer) MeasureDocument(doc string) (map[string]*DocumentResult, error) {
	results := make(map[string]*DocumentResult, len(m.dicts))

	for _, d := range m.dicts {
		tokens := d.Cypher.Encode(doc)
		serialized, err := cypher.MarshalTokens(tokens)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}

		result := &DocumentResult{
			DictionaryName:  d.Name,
			Summary:         cypher.Summarize(tokens),
			InputBytes:      len(doc),
			SerializedBytes: len(serialized),
		}
		for _, tok := range tokens {
			if s, ok := tok.(cypher.Syllable); ok {
				result.Ordinals = append(result.Ordinals, s.Record.Ordinal)
			}
		}
		results[d.Name] = result
	}

	return results, nil
}

// MeasureDocuments measures every document and aggregates the results per
// dictionary.
func (m *Measurer) MeasureDocuments(docs []string) (map[string]*AggregateResult, error) {
	results := make(map[string]*AggregateResult, len(m.dicts))

	// Initialize results for each dictionary.
	for _, d := range m.dicts {
		results[d.Name] = &AggregateResult{
			DictionaryName:  d.Name,
			Syllables:       d.Cypher.Dictionary().Len(),
			SyllableHits:    make(map[int]int),
			TokensPerLetter: make([]float64, 0, len(docs)),
			Coverage:        make([]float64, 0, len(docs)),
			BytesPerInput:   make([]float64, 0, len(docs)),
		}
	}

	for _, doc := range docs {
		docResults, err := m.MeasureDocument(doc)
		if err != nil {
			return nil, err
		}
		for name, dr := range docResults {
			agg := results[name]
			agg.Documents++
			agg.Summary = agg.Summary.Add(dr.Summary)
			agg.InputBytes += dr.InputBytes
			agg.SerializedBytes += dr.SerializedBytes
			agg.TokensPerLetter = append(agg.TokensPerLetter, dr.Summary.TokensPerLetter())
			agg.Coverage = append(agg.Coverage, dr.Summary.Coverage())
			agg.BytesPerInput = append(agg.BytesPerInput, dr.BytesPerInputByte())

			for _, ordinal := range dr.Ordinals {
				agg.SyllableHits[ordinal]++
			}
		}
	}

	for _, agg := range results {
		agg.UniqueSyllables = len(agg.SyllableHits)
	}

	return results, nil
}

// DocumentResult contains the encoding of one document with one dictionary.
type DocumentResult struct {
	DictionaryName  string
	Summary         cypher.Summary
	InputBytes      int
	SerializedBytes int
	Ordinals        []int // Syllable ordinals in encoding order.
}

// BytesPerInputByte returns serialized bytes per input byte.
func (r *DocumentResult) BytesPerInputByte() float64 {
	if r.InputBytes == 0 {
		return 0
	}
	return float64(r.SerializedBytes) / float64(r.InputBytes)
}

// AggregateResult contains aggregated results across documents.
type AggregateResult struct {
	DictionaryName  string
	Syllables       int
	Documents       int
	Summary         cypher.Summary
	InputBytes      int
	SerializedBytes int
	UniqueSyllables int
	SyllableHits    map[int]int // Ordinal -> times matched.

	// Per-document samples for statistical analysis.
	TokensPerLetter []float64
	Coverage        []float64
	BytesPerInput   []float64
}

// Utilization returns the percentage of the dictionary's syllables that
// matched at least once.
func (a *AggregateResult) Utilization() float64 {
	if a.Syllables == 0 {
		return 0
	}
	return float64(a.UniqueSyllables) / float64(a.Syllables) * 100
}
