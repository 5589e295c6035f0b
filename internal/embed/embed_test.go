// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- test helpers ---

type countingModel struct {
	inner Model
	calls atomic.Int32
}

func (m *countingModel) Encode(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	return m.inner.Encode(ctx, text)
}
func (m *countingModel) Name() string { return m.inner.Name() }
func (m *countingModel) Dim() int { return m.inner.Dim() }

type memCache struct {
	mu      sync.Mutex
	vecs    map[string][]float32
	failGet bool
	failPut bool
}

func newMemCache() *memCache { return &memCache{vecs: make(map[string][]float32)} }

func (c *memCache) GetEmbedding(_ context.Context, key string) ([]float32, bool, error) {
	if c.failGet {
		return nil, false, errors.New("read failed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vecs[key]
	return v, ok, nil
}

func (c *memCache) PutEmbedding(_ context.Context, key, _ string, vec []float32) error {
	if c.failPut {
		return errors.New("write failed")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vecs[key] = vec
	return nil
}

func encode(t *testing.T, m Model, text string) []float32 {
	t.Helper()
	v, err := m.Encode(context.Background(), text)
	require.NoError(t, err)
	return v
}

// --- cosine ---

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			ba, err := Cosine(tt.b, tt.a)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ab, 1e-6)
			assert.Equal(t, ab, ba)
		})
	}
}

func TestCosineLengthMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	assert.Error(t, err)
}

// --- hashing model ---

func TestHashingModel(t *testing.T) {
	m := NewHashingModel(0)
	assert.Equal(t, DefaultHashingDim, m.Dim())
	assert.Equal(t, "hashing-384", m.Name())
	assert.Equal(t, "hashing-64", NewHashingModel(64).Name())

	a := encode(t, m, "transformer attention language model")
	b := encode(t, m, "transformer attention language model")
	assert.Equal(t, a, b)
	require.Len(t, a, DefaultHashingDim)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)

	self, err := Cosine(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-6)
}

func TestHashingModelEmptyText(t *testing.T) {
	v := encode(t, NewHashingModel(16), "")
	assert.Equal(t, make([]float32, 16), v)
}

func TestHashingModelSharedVocabularyIsCloser(t *testing.T) {
	m := NewHashingModel(1024)
	q := encode(t, m, "graph neural network node classification benchmark accuracy")
	near := encode(t, m, "graph neural network node classification citation benchmark")
	far := encode(t, m, "protein folding molecular dynamics simulation energy")

	simNear, err := Cosine(q, near)
	require.NoError(t, err)
	simFar, err := Cosine(q, far)
	require.NoError(t, err)
	assert.Greater(t, simNear, simFar)
}

func TestHashingModelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashingModel(8).Encode(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

// --- store ---

func TestStore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("a", []float32{1, 0}))
	require.NoError(t, s.Put("b", []float32{0, 1}))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Dim())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))

	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []float32{1, 0}, v)

	assert.Error(t, s.Put("a", []float32{1, 1}), "second write")
	assert.Error(t, s.Put("c", []float32{1, 1, 1}), "dimension mismatch")
	assert.Error(t, s.Put("d", nil), "empty vector")
	assert.Panics(t, func() { s.MustGet("missing") })
}

func TestStoreConcurrentPut(t *testing.T) {
	s := NewStore()
	ids := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Put(id, []float32{1, 2, 3}))
		}()
	}
	wg.Wait()
	assert.Equal(t, len(ids), s.Len())
}

// --- best match ---

func TestBestMatchIdenticalQuery(t *testing.T) {
	m := NewHashingModel(0)
	s := NewStore()
	text := "diffusion model image synthesis denoising score matching"
	require.NoError(t, s.Put("ref-x", encode(t, m, text)))
	require.NoError(t, s.Put("ref-y", encode(t, m, "database query optimization index")))
	require.NoError(t, s.Put("query", encode(t, m, text)))

	match, ok := BestMatch(s, "query", []string{"ref-y", "ref-x"})
	require.True(t, ok)
	assert.Equal(t, "ref-x", match.ReferenceID)
	assert.InDelta(t, 1.0, match.Similarity, 1e-6)
}

func TestBestMatchTieGoesToFirst(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("q", []float32{1, 0}))
	require.NoError(t, s.Put("r1", []float32{1, 0}))
	require.NoError(t, s.Put("r2", []float32{2, 0}))
	require.NoError(t, s.Put("r3", []float32{0, 1}))

	match, ok := BestMatch(s, "q", []string{"r3", "r1", "r2"})
	require.True(t, ok)
	assert.Equal(t, "r1", match.ReferenceID)

	match, ok = BestMatch(s, "q", []string{"r2", "r1"})
	require.True(t, ok)
	assert.Equal(t, "r2", match.ReferenceID)
}

func TestBestMatchNegativeOnly(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("q", []float32{1, 0}))
	require.NoError(t, s.Put("r", []float32{-1, 0}))

	match, ok := BestMatch(s, "q", []string{"r"})
	require.True(t, ok)
	assert.Equal(t, "r", match.ReferenceID)
	assert.InDelta(t, -1.0, match.Similarity, 1e-6)
}

func TestBestMatchNoReferences(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Put("q", []float32{1, 0}))

	_, ok := BestMatch(s, "q", nil)
	assert.False(t, ok)
}

// --- cached model ---

func TestCachedModel(t *testing.T) {
	inner := &countingModel{inner: NewHashingModel(32)}
	cache := newMemCache()
	m := NewCachedModel(inner, cache, nil)

	first := encode(t, m, "sparse attention")
	second := encode(t, m, "sparse attention")
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, inner.calls.Load())
	assert.Contains(t, cache.vecs, CacheKey("hashing-32", "sparse attention"))

	encode(t, m, "dense attention")
	assert.EqualValues(t, 2, inner.calls.Load())
	assert.Equal(t, "hashing-32", m.Name())
	assert.Equal(t, 32, m.Dim())
}

func TestCachedModelDimensionChangeSharesCache(t *testing.T) {
	cache := newMemCache()
	ctx := context.Background()

	wide := NewCachedModel(NewHashingModel(384), cache, nil)
	_, err := wide.Encode(ctx, "graph neural networks")
	require.NoError(t, err)

	narrow := NewCachedModel(NewHashingModel(64), cache, nil)
	s := NewStore()
	for id, text := range map[string]string{"a": "graph neural networks", "b": "protein folding"} {
		v, err := narrow.Encode(ctx, text)
		require.NoError(t, err)
		assert.Len(t, v, 64, "text %q", text)
		require.NoError(t, s.Put(id, v))
	}
	assert.Equal(t, 64, s.Dim())
}

// fixedNameModel keeps one name whatever its dimension.
type fixedNameModel struct{ *HashingModel }

func (fixedNameModel) Name() string { return "fixed" }

func TestCachedModelStaleDimensionIsMiss(t *testing.T) {
	cache := newMemCache()
	cache.vecs[CacheKey("fixed", "sparse attention")] = []float32{1, 0, 0}

	inner := &countingModel{inner: fixedNameModel{NewHashingModel(16)}}
	m := NewCachedModel(inner, cache, nil)

	v := encode(t, m, "sparse attention")
	assert.Len(t, v, 16)
	assert.EqualValues(t, 1, inner.calls.Load())
	assert.Len(t, cache.vecs[CacheKey("fixed", "sparse attention")], 16, "stale entry replaced")
}

func TestCachedModelCacheFailuresDoNotFailEncode(t *testing.T) {
	inner := &countingModel{inner: NewHashingModel(8)}
	cache := newMemCache()
	cache.failGet = true
	cache.failPut = true

	m := NewCachedModel(inner, cache, nil)
	v := encode(t, m, "text")
	assert.Len(t, v, 8)
	assert.EqualValues(t, 1, inner.calls.Load())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("m", "a"), CacheKey("m", "a"))
	assert.NotEqual(t, CacheKey("m", "a"), CacheKey("m", "b"))
	assert.NotEqual(t, CacheKey("m1", "a"), CacheKey("m2", "a"))
}
