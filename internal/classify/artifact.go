// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Artifact is a trained vectorizer and linear model exported to YAML by the
// offline training job. It is immutable after loading.
type Artifact struct {
	Name       string      `yaml:"name"`
	Vectorizer Vectorizer  `yaml:"vectorizer"`
	Model      LinearModel `yaml:"model"`
}

// LoadArtifact reads and validates an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", path, err)
	}
	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing artifact %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	return &a, nil
}

// Validate checks internal consistency of the vectorizer and model.
func (a *Artifact) Validate() error {
	if err := a.Vectorizer.validate(); err != nil {
		return fmt.Errorf("vectorizer: %w", err)
	}
	if err := a.Model.validate(a.Vectorizer.Dim()); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// Predict implements Predictor.
func (a *Artifact) Predict(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return a.Model.Predict(a.Vectorizer.Transform(text)), nil
}
