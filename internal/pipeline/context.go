// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/pdiddy/paperscreen/internal/classify"
	"github.com/pdiddy/paperscreen/internal/embed"
	"github.com/pdiddy/paperscreen/internal/normalize"
	"github.com/pdiddy/paperscreen/internal/rationale"
)

// Classifier decides publishability and venue from processed text.
// *classify.Pipeline implements it.
type Classifier interface {
	Classify(ctx context.Context, text string) (classify.Prediction, error)
}

// Context holds the components shared by every document of a run. It is
// built once by NewContext and never mutated, so workers read it without
// locking.
type Context struct {
	normalizer *normalize.Normalizer
	model      embed.Model
	classifier Classifier
	generator  *rationale.Generator
	workers    int
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithClassifier makes the classifier decide every verdict. Without one the
// labels of the nearest reference are adopted.
func WithClassifier(c Classifier) Option {
	return func(pc *Context) { pc.classifier = c }
}

// WithWorkers bounds per-document parallelism. Values below 1 use
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(pc *Context) { pc.workers = n }
}

// WithTimeout bounds each embed and classify call. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(pc *Context) { pc.timeout = d }
}

// WithGenerator replaces the default rationale generator.
func WithGenerator(g *rationale.Generator) Option {
	return func(pc *Context) { pc.generator = g }
}

// WithLogger sets the logger for per-document warnings.
func WithLogger(l *slog.Logger) Option {
	return func(pc *Context) { pc.logger = l }
}

// NewContext assembles a run context from a normalizer and an embedding
// model plus options.
func NewContext(n *normalize.Normalizer, m embed.Model, opts ...Option) (*Context, error) {
	if n == nil {
		return nil, errors.New("pipeline: normalizer is required")
	}
	if m == nil {
		return nil, errors.New("pipeline: embedding model is required")
	}

	pc := &Context{normalizer: n, model: m}
	for _, opt := range opts {
		opt(pc)
	}
	if pc.workers < 1 {
		pc.workers = runtime.NumCPU()
	}
	if pc.generator == nil {
		pc.generator = rationale.New()
	}
	if pc.logger == nil {
		pc.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pc.logger = pc.logger.With("system", "pipeline")
	return pc, nil
}

// HasClassifier reports whether verdicts come from the classifier.
func (pc *Context) HasClassifier() bool { return pc.classifier != nil }

// Workers returns the configured parallelism.
func (pc *Context) Workers() int { return pc.workers }

// ModelName names the embedding model.
func (pc *Context) ModelName() string { return pc.model.Name() }

// withTimeout derives the per-call context.
func (pc *Context) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if pc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, pc.timeout)
}
