// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"math"
	"strings"
)

// Vector is a sparse feature vector keyed by vocabulary column.
type Vector map[int]float64

// Dot returns the inner product of v with a dense weight row.
func (v Vector) Dot(weights []float64) float64 {
	var sum float64
	for col, val := range v {
		if col < len(weights) {
			sum += val * weights[col]
		}
	}
	return sum
}

// Vectorizer maps processed text to TF-IDF weighted unigram and bigram
// features over a frozen vocabulary. Terms outside the vocabulary are
// ignored. The weighting matches scikit-learn's TfidfVectorizer defaults:
// raw counts times idf, then L2 normalization.
type Vectorizer struct {
	// NgramRange is the inclusive [min, max] n-gram length (default [1, 2]).
	NgramRange []int `yaml:"ngram_range"`

	// Vocabulary maps each term to its column.
	Vocabulary map[string]int `yaml:"vocabulary"`

	// IDF holds the inverse document frequency per column.
	IDF []float64 `yaml:"idf"`

	// SublinearTF replaces counts with 1 + log(count).
	SublinearTF bool `yaml:"sublinear_tf"`
}

// Dim returns the number of feature columns.
func (v *Vectorizer) Dim() int { return len(v.IDF) }

// validate checks that the vocabulary and idf table agree.
func (v *Vectorizer) validate() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("empty vocabulary")
	}
	for term, col := range v.Vocabulary {
		if col < 0 || col >= len(v.IDF) {
			return fmt.Errorf("term %q maps to column %d outside idf table of %d", term, col, len(v.IDF))
		}
	}
	lo, hi := v.ngrams()
	if lo < 1 || hi < lo {
		return fmt.Errorf("invalid ngram range [%d, %d]", lo, hi)
	}
	return nil
}

func (v *Vectorizer) ngrams() (int, int) {
	if len(v.NgramRange) != 2 {
		return 1, 2
	}
	return v.NgramRange[0], v.NgramRange[1]
}

// Transform converts processed text into its feature vector. Empty text
// and text without known terms produce an empty vector.
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]float64)
	for _, term := range terms(text, v.ngrams) {
		if col, ok := v.Vocabulary[term]; ok {
			counts[col]++
		}
	}

	var norm float64
	for col, c := range counts {
		if v.SublinearTF {
			c = 1 + math.Log(c)
		}
		w := c * v.IDF[col]
		counts[col] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range counts {
			counts[col] /= norm
		}
	}
	return Vector(counts)
}

// terms yields the n-grams of text. Tokens shorter than two characters are
// skipped before n-grams are formed, as scikit-learn's default token
// pattern does.
func terms(text string, ngrams func() (int, int)) []string {
	var toks []string
	for _, t := range strings.Fields(text) {
		if len([]rune(t)) >= 2 {
			toks = append(toks, t)
		}
	}

	lo, hi := ngrams()
	var out []string
	for n := lo; n <= hi; n++ {
		for i := 0; i+n <= len(toks); i++ {
			out = append(out, strings.Join(toks[i:i+n], " "))
		}
	}
	return out
}
