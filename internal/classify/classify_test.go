// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// --- test helpers ---

func testVectorizer() Vectorizer {
	return Vectorizer{
		NgramRange: []int{1, 2},
		Vocabulary: map[string]int{"deep": 0, "learning": 1, "deep learning": 2, "spam": 3},
		IDF:        []float64{1, 1, 1, 1},
	}
}

func binaryArtifact() *Artifact {
	return &Artifact{
		Name:       "binary",
		Vectorizer: testVectorizer(),
		Model: LinearModel{
			Classes:   []string{"0", "1"},
			Coef:      [][]float64{{1, 1, 1, -3}},
			Intercept: []float64{-0.5},
		},
	}
}

func venueArtifact() *Artifact {
	return &Artifact{
		Name:       "venue",
		Vectorizer: testVectorizer(),
		Model: LinearModel{
			Classes:   []string{"CVPR", "NeurIPS", "KDD"},
			Coef:      [][]float64{{0, 0, 0, 0}, {1, 1, 1, 0}, {0, 0, 0, 1}},
			Intercept: []float64{0, 0, 0},
		},
	}
}

func writeArtifact(t *testing.T, dir string, a *Artifact) string {
	t.Helper()
	data, err := yaml.Marshal(a)
	require.NoError(t, err)
	path := filepath.Join(dir, a.Name+".yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type countingPredictor struct {
	label string
	err   error
	calls atomic.Int32
}

func (p *countingPredictor) Predict(_ context.Context, _ string) (string, error) {
	p.calls.Add(1)
	return p.label, p.err
}

// --- tests ---

func TestVectorizerTransform(t *testing.T) {
	v := testVectorizer()

	x := v.Transform("deep learning")
	require.Len(t, x, 3)
	var norm float64
	for _, w := range x {
		norm += w * w
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)

	assert.Empty(t, v.Transform(""))
	assert.Empty(t, v.Transform("unknown words only"))

	// Single-character tokens never form terms.
	x = v.Transform("deep x learning")
	_, hasBigram := x[2]
	assert.True(t, hasBigram)
}

func TestVectorizerSublinear(t *testing.T) {
	v := testVectorizer()
	v.NgramRange = []int{1, 1}
	v.SublinearTF = true

	x := v.Transform("spam spam spam deep")
	assert.Greater(t, x[3], x[0])
	assert.Less(t, x[3]/x[0], 3.0)
}

func TestLinearModelPredict(t *testing.T) {
	bin := binaryArtifact()
	venue := venueArtifact()

	tests := []struct {
		name string
		a    *Artifact
		text string
		want string
	}{
		{"binary positive", bin, "deep learning", "1"},
		{"binary negative", bin, "spam spam", "0"},
		{"binary empty falls to intercept", bin, "", "0"},
		{"venue argmax", venue, "deep learning", "NeurIPS"},
		{"venue other row", venue, "spam", "KDD"},
		{"venue tie keeps first class", venue, "", "CVPR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Predict(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArtifactPredictCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := binaryArtifact().Predict(ctx, "deep")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArtifactValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Artifact)
	}{
		{"empty vocabulary", func(a *Artifact) { a.Vectorizer.Vocabulary = nil }},
		{"column outside idf", func(a *Artifact) { a.Vectorizer.Vocabulary["new"] = 9 }},
		{"bad ngram range", func(a *Artifact) { a.Vectorizer.NgramRange = []int{2, 1} }},
		{"one class", func(a *Artifact) { a.Model.Classes = []string{"1"} }},
		{"intercept mismatch", func(a *Artifact) { a.Model.Intercept = nil }},
		{"short coef row", func(a *Artifact) { a.Model.Coef = [][]float64{{1, 1}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := binaryArtifact()
			tt.mutate(a)
			assert.Error(t, a.Validate())
		})
	}
	assert.NoError(t, binaryArtifact().Validate())
	assert.NoError(t, venueArtifact().Validate())
}

func TestLoadPipeline(t *testing.T) {
	dir := t.TempDir()
	binPath := writeArtifact(t, dir, binaryArtifact())
	venuePath := writeArtifact(t, dir, venueArtifact())

	p, err := LoadPipeline(binPath, venuePath)
	require.NoError(t, err)

	got, err := p.Classify(context.Background(), "deep learning")
	require.NoError(t, err)
	assert.Equal(t, Prediction{Publishable: true, Conference: "NeurIPS"}, got)

	got, err = p.Classify(context.Background(), "spam")
	require.NoError(t, err)
	assert.Equal(t, Prediction{Publishable: false, Conference: types.NoConference}, got)
}

func TestLoadPipelineMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	binPath := writeArtifact(t, dir, binaryArtifact())

	_, err := LoadPipeline(binPath, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "venue")
}

func TestLoadArtifactMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unclosed"), 0o644))
	_, err := LoadArtifact(path)
	assert.Error(t, err)
}

func TestClassifyNonPublishableSkipsVenue(t *testing.T) {
	bin := &countingPredictor{label: "0"}
	venue := &countingPredictor{label: "KDD"}
	p := &Pipeline{Binary: bin, Venue: venue}

	got, err := p.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.False(t, got.Publishable)
	assert.Equal(t, types.NoConference, got.Conference)
	assert.EqualValues(t, 1, bin.calls.Load())
	assert.EqualValues(t, 0, venue.calls.Load())
}

func TestClassifyPublishableCallsVenueOnce(t *testing.T) {
	bin := &countingPredictor{label: "publishable"}
	venue := &countingPredictor{label: "TMLR"}
	p := &Pipeline{Binary: bin, Venue: venue}

	got, err := p.Classify(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, Prediction{Publishable: true, Conference: "TMLR"}, got)
	assert.EqualValues(t, 1, venue.calls.Load())
}

func TestClassifyErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		bin   Predictor
		venue Predictor
	}{
		{"binary fails", &countingPredictor{err: boom}, &countingPredictor{label: "KDD"}},
		{"venue fails", &countingPredictor{label: "1"}, &countingPredictor{err: boom}},
		{"venue empty", &countingPredictor{label: "1"}, PredictorFunc(func(context.Context, string) (string, error) {
			return "", nil
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Binary: tt.bin, Venue: tt.venue}
			_, err := p.Classify(context.Background(), "text")
			assert.ErrorIs(t, err, ErrClassificationFailed)
		})
	}
}

func TestIsPublishableLabel(t *testing.T) {
	for _, l := range []string{"1", "publishable", "Publishable", " true ", "yes"} {
		assert.True(t, IsPublishableLabel(l), l)
	}
	for _, l := range []string{"0", "", "non-publishable", "false"} {
		assert.False(t, IsPublishableLabel(l), l)
	}
}
