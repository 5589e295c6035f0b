// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns raw paper text into the canonical processed form
// shared by the classifier and the embedding engine.
package normalize

import (
	"strings"

	"github.com/kljensen/snowball"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// Normalizer is a deterministic, lossy text cleaner. It holds no mutable
// state and is safe for concurrent use.
type Normalizer struct {
	cfg types.NormalizeConfig
}

// New returns a Normalizer for the given configuration.
func New(cfg types.NormalizeConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize lower-cases text, collapses whitespace, replaces everything
// outside [a-z0-9 ] with a space, and rejoins the surviving tokens with
// single spaces. Lemmatization and stop-word removal run when configured.
// Empty input yields empty output.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	tokens := Tokenize(text)

	if n.cfg.Lemmatize {
		for i, tok := range tokens {
			tokens[i] = lemma(tok)
		}
	}

	if n.cfg.RemoveStopwords {
		kept := tokens[:0]
		for _, tok := range tokens {
			if len(tok) <= 1 || IsStopword(tok) {
				continue
			}
			kept = append(kept, tok)
		}
		tokens = kept
	}

	return strings.Join(tokens, " ")
}

// Tokenize applies the cleaning steps without the optional filters and
// returns the resulting tokens.
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	text = strings.Join(strings.Fields(text), " ")

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return ' '
		}
	}, text)

	return strings.Fields(cleaned)
}

// maxStemPasses bounds the fixed-point search in lemma. English stems
// settle within two or three passes.
const maxStemPasses = 8

// lemma reduces tok to an English stem that stems to itself, so normalized
// text normalizes unchanged. Tokens the stemmer rejects are returned
// unchanged; the stemmer never yields characters outside [a-z0-9].
func lemma(tok string) string {
	for range maxStemPasses {
		stemmed, err := snowball.Stem(tok, "english", true)
		if err != nil || stemmed == "" || stemmed == tok {
			return tok
		}
		tok = stemmed
	}
	return tok
}
