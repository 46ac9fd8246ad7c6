package dictionary

import "sort"

// Default generator alphabets. Unlike the letter cypher, the generator treats
// 'y' as a consonant.
const (
	DefaultVowels     = "aeiou"
	DefaultConsonants = "bcdfghjklmnpqrstvwxyz"
)

// DefaultBlends are the consonant clusters combined with each vowel.
var DefaultBlends = []string{"th", "sh", "ch", "st", "sp", "sl", "tr"}

type generateOptions struct {
	vowels     string
	consonants string
	blends     []string
}

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

// WithVowels sets the vowel alphabet used by Generate.
func WithVowels(v string) GenerateOption {
	return func(o *generateOptions) { o.vowels = v }
}

// WithConsonants sets the consonant alphabet used by Generate.
func WithConsonants(c string) GenerateOption {
	return func(o *generateOptions) { o.consonants = c }
}

// WithBlends sets the consonant clusters used by Generate.
func WithBlends(b []string) GenerateOption {
	return func(o *generateOptions) { o.blends = b }
}

// Generate builds a syllable list from consonant/vowel combinations:
// every CVC, CV and VC triple or pair, plus each blend followed by a vowel.
// The result is deduplicated and sorted ascending.
func Generate(opts ...GenerateOption) []string {
	o := generateOptions{
		vowels:     DefaultVowels,
		consonants: DefaultConsonants,
		blends:     DefaultBlends,
	}
	for _, opt := range opts {
		opt(&o)
	}

	vowels := []rune(o.vowels)
	consonants := []rune(o.consonants)
	set := make(map[string]struct{})

	for _, c1 := range consonants {
		for _, v := range vowels {
			for _, c2 := range consonants {
				set[string([]rune{c1, v, c2})] = struct{}{}
			}
		}
	}
	for _, c := range consonants {
		for _, v := range vowels {
			set[string([]rune{c, v})] = struct{}{}
			set[string([]rune{v, c})] = struct{}{}
		}
	}
	for _, blend := range o.blends {
		for _, v := range vowels {
			set[blend+string(v)] = struct{}{}
		}
	}

	syllables := make([]string, 0, len(set))
	for s := range set {
		syllables = append(syllables, s)
	}
	sort.Strings(syllables)
	return syllables
}
