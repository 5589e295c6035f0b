// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// GetEmbedding returns the cached vector for key.
func (s *Store) GetEmbedding(ctx context.Context, key string) ([]float32, bool, error) {
	var (
		dim  int
		blob []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT dim, vector FROM embeddings WHERE key = ?`, key,
	).Scan(&dim, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading embedding: %w", err)
	}
	if len(blob) != 4*dim {
		return nil, false, fmt.Errorf("embedding %s: blob of %d bytes for dimension %d", key, len(blob), dim)
	}

	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, true, nil
}

// PutEmbedding stores vec under key, replacing any earlier value.
func (s *Store) PutEmbedding(ctx context.Context, key, model string, vec []float32) error {
	blob := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(blob[4*i:], math.Float32bits(v))
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO embeddings (key, model, dim, vector, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET model=excluded.model, dim=excluded.dim,
			vector=excluded.vector, created_at=excluded.created_at`,
		key, model, len(vec), blob, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing embedding: %w", err)
	}
	return nil
}

// EmbeddingCount returns the number of cached vectors per model.
func (s *Store) EmbeddingCount(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT model, count(*) FROM embeddings GROUP BY model`)
	if err != nil {
		return nil, fmt.Errorf("counting embeddings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			model string
			n     int
		)
		if err := rows.Scan(&model, &n); err != nil {
			return nil, err
		}
		counts[model] = n
	}
	return counts, rows.Err()
}
