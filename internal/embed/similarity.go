// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"fmt"
	"math"
)

// Cosine returns dot(a, b) / (|a| |b|). It is 0 when either norm is zero
// and an error when the lengths differ.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// Match is the most similar reference for one query.
type Match struct {
	ReferenceID string
	Similarity  float64
}

// BestMatch scans refIDs linearly and returns the reference with the
// highest cosine similarity to queryID. A later reference must be strictly
// more similar to replace the current best, so ties go to the first one
// encountered. ok is false when refIDs is empty.
//
// The first reference is always accepted, even at similarity -1, so a
// non-empty refIDs always yields a match. There is no floor above which a
// reference must score to count.
//
// Every id must already be in the store.
func BestMatch(s *Store, queryID string, refIDs []string) (m Match, ok bool) {
	q := s.MustGet(queryID)
	for _, id := range refIDs {
		// Store.Put enforces a single dimension, so Cosine cannot fail here.
		sim, _ := Cosine(q, s.MustGet(id))
		if !ok || sim > m.Similarity {
			m = Match{ReferenceID: id, Similarity: sim}
			ok = true
		}
	}
	return m, ok
}
