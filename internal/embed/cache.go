// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Cache persists vectors across runs.
type Cache interface {
	// GetEmbedding returns the cached vector for key; ok is false on a miss.
	GetEmbedding(ctx context.Context, key string) (vec []float32, ok bool, err error)

	// PutEmbedding stores vec under key, replacing any earlier value.
	PutEmbedding(ctx context.Context, key, model string, vec []float32) error
}

// CacheKey identifies the vector of text under the named model.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return model + ":" + hex.EncodeToString(sum[:])
}

// CachedModel consults a Cache before encoding with the wrapped Model and
// stores fresh vectors afterwards. Cache failures are reported to Log and
// never fail an encode.
type CachedModel struct {
	Model Model
	Cache Cache
	Log   io.Writer
}

// NewCachedModel wraps m with c.
func NewCachedModel(m Model, c Cache, log io.Writer) *CachedModel {
	if log == nil {
		log = io.Discard
	}
	return &CachedModel{Model: m, Cache: c, Log: log}
}

// Name implements Model.
func (c *CachedModel) Name() string { return c.Model.Name() }

// Dim implements Model.
func (c *CachedModel) Dim() int { return c.Model.Dim() }

// fits reports whether a cached vector matches the model dimension. A
// model that learns its dimension on first use accepts any length until then.
func (c *CachedModel) fits(vec []float32) bool {
	dim := c.Model.Dim()
	return dim == 0 || len(vec) == dim
}

// Encode implements Model.
func (c *CachedModel) Encode(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(c.Model.Name(), text)

	vec, ok, err := c.Cache.GetEmbedding(ctx, key)
	switch {
	case err != nil:
		fmt.Fprintf(c.Log, "warning: embedding cache read: %v\n", err)
	case ok && c.fits(vec):
		return vec, nil
	case ok:
		fmt.Fprintf(c.Log, "warning: embedding cache holds dimension %d for %s, want %d; re-encoding\n",
			len(vec), c.Model.Name(), c.Model.Dim())
	}

	vec, err = c.Model.Encode(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.PutEmbedding(ctx, key, c.Model.Name(), vec); err != nil {
		fmt.Fprintf(c.Log, "warning: embedding cache write: %v\n", err)
	}
	return vec, nil
}
