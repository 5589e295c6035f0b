// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns processed text into fixed-dimension vectors and
// finds, for each unclassified paper, the most similar reference paper by
// cosine similarity.
package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// Model encodes text into a dense vector. Implementations must be safe for
// concurrent use and return vectors of a single dimension.
type Model interface {
	Encode(ctx context.Context, text string) ([]float32, error)

	// Name identifies the model; cached vectors are keyed by it.
	Name() string

	// Dim is the vector dimension, or 0 when unknown until first use.
	Dim() int
}

// DefaultHashingDim is the dimension of HashingModel when none is given.
const DefaultHashingDim = 384

// HashingModel is a deterministic, offline encoder. Each unigram and
// bigram is hashed with FNV-1a into one of Dim buckets with a sign taken
// from the hash, and the result is L2 normalized. Texts sharing vocabulary
// land close together; identical texts encode identically.
type HashingModel struct {
	dim int
}

// NewHashingModel returns a HashingModel with dim buckets
// (DefaultHashingDim when dim <= 0).
func NewHashingModel(dim int) *HashingModel {
	if dim <= 0 {
		dim = DefaultHashingDim
	}
	return &HashingModel{dim: dim}
}

// Name implements Model. It carries the dimension, so vectors cached
// under one dimension are never served to a model of another.
func (m *HashingModel) Name() string { return "hashing-" + strconv.Itoa(m.dim) }

// Dim implements Model.
func (m *HashingModel) Dim() int { return m.dim }

// Encode implements Model. Empty text yields the zero vector.
func (m *HashingModel) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := make([]float64, m.dim)
	toks := strings.Fields(text)
	for i, tok := range toks {
		m.add(acc, tok)
		if i > 0 {
			m.add(acc, toks[i-1]+" "+tok)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	out := make([]float32, m.dim)
	if norm == 0 {
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (m *HashingModel) add(acc []float64, feature string) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()

	sign := 1.0
	if sum>>63 == 1 {
		sign = -1
	}
	acc[sum%uint64(m.dim)] += sign
}
