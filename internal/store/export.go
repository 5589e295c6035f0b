// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscreen/pkg/types"
)

const exportLimit = 100000

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Runs    []Run                        `json:"runs" yaml:"runs"`
	Results []types.ClassificationResult `json:"results" yaml:"results"`
}

// ExportYAML writes matching history to <dir>/export.yaml and returns the
// path. It supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	exp, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(exp)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching history to <dir>/export.json and returns the
// path. It supports the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	exp, err := s.export(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) export(ctx context.Context, opts QueryOptions) (Export, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}
	runs, err := s.Runs(ctx, exportLimit)
	if err != nil {
		return Export{}, fmt.Errorf("querying runs for export: %w", err)
	}

	used := make(map[string]bool, len(results))
	for _, r := range results {
		used[r.RunID] = true
	}
	exp := Export{Results: results}
	for _, r := range runs {
		if used[r.ID] {
			exp.Runs = append(exp.Runs, r)
		}
	}
	return exp, nil
}
