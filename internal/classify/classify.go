// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides publishability and venue from processed text
// using two chained frozen classifiers. Training happens offline; this
// package only consumes the exported artifacts.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// ErrClassificationFailed wraps every classifier invocation failure.
var ErrClassificationFailed = errors.New("classification failed")

// Predictor maps processed text to a class label. Implementations must be
// safe for concurrent use.
type Predictor interface {
	Predict(ctx context.Context, text string) (string, error)
}

// PredictorFunc adapts a plain function to Predictor.
type PredictorFunc func(ctx context.Context, text string) (string, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Prediction is the outcome of the two-stage classifier.
type Prediction struct {
	Publishable bool   `json:"publishable" yaml:"publishable"`
	Conference  string `json:"conference" yaml:"conference"`
}

// Pipeline chains a binary publishable classifier with a venue classifier.
// It is stateless once constructed.
type Pipeline struct {
	Binary Predictor
	Venue  Predictor
}

// LoadPipeline reads the binary and venue artifacts.
func LoadPipeline(binaryPath, venuePath string) (*Pipeline, error) {
	bin, err := LoadArtifact(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("loading binary classifier: %w", err)
	}
	venue, err := LoadArtifact(venuePath)
	if err != nil {
		return nil, fmt.Errorf("loading venue classifier: %w", err)
	}
	return &Pipeline{Binary: bin, Venue: venue}, nil
}

// Classify runs the binary classifier and, only for publishable text, the
// venue classifier. Non-publishable text gets types.NoConference.
func (p *Pipeline) Classify(ctx context.Context, text string) (Prediction, error) {
	label, err := p.Binary.Predict(ctx, text)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: binary: %w", ErrClassificationFailed, err)
	}
	if !IsPublishableLabel(label) {
		return Prediction{Publishable: false, Conference: types.NoConference}, nil
	}

	venue, err := p.Venue.Predict(ctx, text)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: venue: %w", ErrClassificationFailed, err)
	}
	if venue == "" {
		return Prediction{}, fmt.Errorf("%w: venue classifier returned an empty label", ErrClassificationFailed)
	}
	return Prediction{Publishable: true, Conference: venue}, nil
}

// IsPublishableLabel reports whether a binary classifier label means
// publishable. Training exports use "1"; textual labels are accepted too.
func IsPublishableLabel(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "1", "true", "yes", "publishable":
		return true
	}
	return false
}
