// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperscreen/internal/secrets"
	"github.com/pdiddy/paperscreen/pkg/types"
)

// configKeys lists every leaf key so AutomaticEnv can supply values that
// appear in neither the config file nor the flags.
var configKeys = []string{
	"normalize.lemmatize", "normalize.remove_stopwords",
	"classifier.binary_model", "classifier.venue_model",
	"embedding.backend", "embedding.dim", "embedding.model", "embedding.base_url",
	"embedding.requests_per_second", "embedding.max_retries", "embedding.timeout",
	"store.dir", "store.cache", "store.pgvector_dsn", "store.pgvector_table", "store.max_results",
	"dataset.dir", "dataset.text_dir", "dataset.conferences", "dataset.extractor",
	"dataset.container_image", "dataset.extract_timeout",
	"output.dir",
	"pipeline.workers", "pipeline.per_document_timeout",
}

// loadConfig merges defaults, the config file, PAPERSCREEN_* environment
// variables, secrets, and finally any flags set on cmd.
func loadConfig(cmd *cobra.Command) (types.Config, error) {
	for _, key := range configKeys {
		_ = viper.BindEnv(key)
	}

	cfg := types.Defaults()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	secrets.Apply(&cfg, loadedSecrets)

	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return cfg, errors.New("invalid configuration: " + strings.Join(msgs, "; "))
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg. Flags a command does not
// define are ignored.
func applyFlags(cmd *cobra.Command, cfg *types.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("dataset-dir") {
		cfg.Dataset.Dir, _ = flags.GetString("dataset-dir")
	}
	if changed("output-dir") {
		cfg.Output.Dir, _ = flags.GetString("output-dir")
	}
	if changed("binary-model") {
		cfg.Classifier.BinaryModel, _ = flags.GetString("binary-model")
	}
	if changed("venue-model") {
		cfg.Classifier.VenueModel, _ = flags.GetString("venue-model")
	}
	if changed("embedder") {
		backend, _ := flags.GetString("embedder")
		cfg.Embedding.Backend = types.EmbeddingBackend(backend)
	}
	if changed("cache") {
		cache, _ := flags.GetString("cache")
		cfg.Store.Cache = types.CacheBackend(cache)
	}
	if changed("extractor") {
		extractor, _ := flags.GetString("extractor")
		cfg.Dataset.Extractor = types.ExtractorBackend(extractor)
	}
	if changed("workers") {
		cfg.Pipeline.Workers, _ = flags.GetInt("workers")
	}
	if changed("conferences") {
		confs, err := flags.GetStringSlice("conferences")
		if err != nil {
			return err
		}
		cfg.Dataset.Conferences = confs
	}
	return nil
}
