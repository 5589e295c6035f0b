// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/paperscreen/internal/classify"
	"github.com/pdiddy/paperscreen/internal/container"
	"github.com/pdiddy/paperscreen/internal/convert"
	"github.com/pdiddy/paperscreen/internal/embed"
	"github.com/pdiddy/paperscreen/internal/store"
	"github.com/pdiddy/paperscreen/pkg/types"
)

// newConverter returns the text extractor selected by cfg, wrapped in the
// on-disk text cache.
func newConverter(ctx context.Context, cfg types.Config) (*convert.Cached, error) {
	var pdf convert.Converter = convert.PDFConverter{}
	if cfg.Dataset.Extractor == types.ExtractorContainer {
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		cc, err := convert.NewContainerConverter(ctx, rt, cfg.Dataset.ContainerImage, cfg.Dataset.ExtractTimeout)
		if err != nil {
			return nil, err
		}
		pdf = cc
	}
	return &convert.Cached{
		Converter: convert.NewAuto(pdf),
		Root:      cfg.Dataset.Dir,
		Dir:       cfg.Dataset.TextDir,
	}, nil
}

// newModel returns the embedding model selected by cfg. When a cache is
// configured the model consults it first; the returned closer releases
// the cache connection.
func newModel(ctx context.Context, cfg types.Config, history *store.Store, log io.Writer) (embed.Model, func(), error) {
	var (
		base embed.Model
		err  error
	)
	switch cfg.Embedding.Backend {
	case types.EmbeddingOllama:
		base, err = embed.NewOllamaModel(cfg.Embedding)
		if err != nil {
			return nil, nil, err
		}
	default:
		base = embed.NewHashingModel(cfg.Embedding.Dim)
	}

	noop := func() {}
	switch cfg.Store.Cache {
	case types.CacheSQLite:
		if history == nil {
			return base, noop, nil
		}
		return embed.NewCachedModel(base, history, log), noop, nil
	case types.CachePGVector:
		pg, err := embed.NewPGVectorCache(ctx, cfg.Store.PGVectorDSN, cfg.Store.PGVectorTable)
		if err != nil {
			return nil, nil, err
		}
		return embed.NewCachedModel(base, pg, log), pg.Close, nil
	default:
		return base, noop, nil
	}
}

// newClassifier loads the classifier artifacts when both are configured.
func newClassifier(cfg types.Config) (*classify.Pipeline, error) {
	if cfg.Classifier.BinaryModel == "" {
		return nil, nil
	}
	return classify.LoadPipeline(cfg.Classifier.BinaryModel, cfg.Classifier.VenueModel)
}

// newLogger returns the slog logger for per-document warnings.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// progressModel advances bar after every encode.
type progressModel struct {
	embed.Model
	bar *progressbar.ProgressBar
}

func (m progressModel) Encode(ctx context.Context, text string) ([]float32, error) {
	vec, err := m.Model.Encode(ctx, text)
	_ = m.bar.Add(1)
	return vec, err
}

func getProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("papers"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
