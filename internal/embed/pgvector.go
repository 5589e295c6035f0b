// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PGVectorCache is a Cache backed by a PostgreSQL table with a pgvector
// column, shared between machines screening the same corpus.
type PGVectorCache struct {
	pool  *pgxpool.Pool
	table string
}

// NewPGVectorCache connects to dsn and ensures the vector extension and
// the cache table exist.
func NewPGVectorCache(ctx context.Context, dsn, table string) (*PGVectorCache, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid pgvector table name %q", table)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to pgvector: %w", err)
	}

	c := &PGVectorCache{pool: pool, table: table}
	if err := c.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func (c *PGVectorCache) initialize(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			model      TEXT NOT NULL,
			embedding  vector NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, c.table)
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", c.table, err)
	}
	return nil
}

// GetEmbedding implements Cache.
func (c *PGVectorCache) GetEmbedding(ctx context.Context, key string) ([]float32, bool, error) {
	var v pgvector.Vector
	q := fmt.Sprintf("SELECT embedding FROM %s WHERE key = $1", c.table)
	err := c.pool.QueryRow(ctx, q, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading embedding %s: %w", key, err)
	}
	return v.Slice(), true, nil
}

// PutEmbedding implements Cache.
func (c *PGVectorCache) PutEmbedding(ctx context.Context, key, model string, vec []float32) error {
	q := fmt.Sprintf(`
		INSERT INTO %s (key, model, embedding) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET embedding = EXCLUDED.embedding, model = EXCLUDED.model`,
		c.table)
	if _, err := c.pool.Exec(ctx, q, key, model, pgvector.NewVector(vec)); err != nil {
		return fmt.Errorf("writing embedding %s: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *PGVectorCache) Close() {
	c.pool.Close()
}
