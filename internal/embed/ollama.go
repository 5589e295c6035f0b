// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paperscreen/internal/httputil"
	"github.com/pdiddy/paperscreen/pkg/types"
)

// OllamaModel requests dense embeddings from an Ollama server. Requests
// are rate limited and retried on 429 and 503 responses.
type OllamaModel struct {
	llm     *ollama.LLM
	limiter *rate.Limiter
	model   string
	dim     atomic.Int64
}

// NewOllamaModel connects an OllamaModel using cfg's model, server URL,
// request rate, retry count, timeout and optional API key.
func NewOllamaModel(cfg types.EmbeddingConfig) (*OllamaModel, error) {
	client := httputil.WithBearer(httputil.NewClient(cfg.MaxRetries, cfg.Timeout), cfg.APIKey)

	llm, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithHTTPClient(client),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama embedder: %w", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &OllamaModel{
		llm:     llm,
		limiter: rate.NewLimiter(limit, 1),
		model:   cfg.Model,
	}, nil
}

// Name implements Model.
func (m *OllamaModel) Name() string { return "ollama/" + m.model }

// Dim implements Model. It is 0 until the first vector is returned; every
// later vector must match that dimension.
func (m *OllamaModel) Dim() int { return int(m.dim.Load()) }

// Encode implements Model.
func (m *OllamaModel) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	embs, err := m.llm.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("ollama %s: %w", m.model, err)
	}
	if len(embs) != 1 || len(embs[0]) == 0 {
		return nil, fmt.Errorf("ollama %s returned %d embeddings for one input", m.model, len(embs))
	}

	vec := embs[0]
	m.dim.CompareAndSwap(0, int64(len(vec)))
	if want := m.dim.Load(); int64(len(vec)) != want {
		return nil, fmt.Errorf("ollama %s returned dimension %d, expected %d", m.model, len(vec), want)
	}
	return vec, nil
}
