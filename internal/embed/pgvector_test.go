// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPGVectorCache needs a PostgreSQL server with the vector extension;
// set PAPERSCREEN_TEST_PGVECTOR_DSN to run it.
func TestPGVectorCache(t *testing.T) {
	dsn := os.Getenv("PAPERSCREEN_TEST_PGVECTOR_DSN")
	if dsn == "" {
		t.Skip("PAPERSCREEN_TEST_PGVECTOR_DSN not set")
	}
	ctx := context.Background()

	c, err := NewPGVectorCache(ctx, dsn, "paperscreen_test_embeddings")
	require.NoError(t, err)
	defer c.Close()

	key := CacheKey("hashing", "pgvector round trip")
	require.NoError(t, c.PutEmbedding(ctx, key, "hashing", []float32{0.6, 0.8, 0}))

	v, ok, err := c.GetEmbedding(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{0.6, 0.8, 0}, v, 1e-6)

	_, ok, err = c.GetEmbedding(ctx, CacheKey("hashing", "never stored"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPGVectorCacheRejectsTableName(t *testing.T) {
	_, err := NewPGVectorCache(context.Background(), "postgres://unused", "embeddings; DROP TABLE x")
	assert.Error(t, err)
}
