// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a screening batch: normalize and embed every
// document, match each unclassified paper against the reference corpus,
// explain the verdict, and assemble results. Documents that fail a stage
// are reported as Outcomes and excluded; only an empty reference set or an
// empty query set aborts a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperscreen/internal/classify"
	"github.com/pdiddy/paperscreen/internal/embed"
	"github.com/pdiddy/paperscreen/internal/rationale"
	"github.com/pdiddy/paperscreen/pkg/types"
)

// Stage names the step a document was in when it failed.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageEmbed    Stage = "embed"
	StageClassify Stage = "classify"
	StageMatch    Stage = "match"
)

// Outcome records a document excluded from the results.
type Outcome struct {
	ID    string
	Stage Stage
	Err   error
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s (%s): %v", o.ID, o.Stage, o.Err)
}

// Output is the result of a run.
type Output struct {
	// Results holds one verdict per matched unclassified document, in
	// input order.
	Results []types.ClassificationResult

	// Assessments holds the rationale inputs, parallel to Results.
	Assessments []rationale.Assessment

	// References and Unclassified count documents that survived embedding.
	References   int
	Unclassified int

	Failures []Outcome
}

// Total returns the number of documents accounted for.
func (o Output) Total() int {
	return o.References + o.Unclassified + len(o.Failures)
}

// HasFailures reports whether any document was excluded.
func (o Output) HasFailures() bool {
	return len(o.Failures) > 0
}

// PlagiarismCount returns the number of flagged results.
func (o Output) PlagiarismCount() int {
	n := 0
	for _, r := range o.Results {
		if r.PlagiarismFlag {
			n++
		}
	}
	return n
}

// prepared is a document after the per-document stages.
type prepared struct {
	doc     types.Document
	pred    *classify.Prediction
	failure *Outcome
}

func (p prepared) fail(stage Stage, err error) prepared {
	p.failure = &Outcome{ID: p.doc.ID, Stage: stage, Err: err}
	return p
}

// Run screens inputs. Status lines for each document go to w.
//
// Normalize, embed and classify run per document on a bounded worker
// pool; matching starts only after every document has been embedded.
// Results follow input order. Run returns ErrNoReferences or
// ErrNoUnclassified when no document of that kind survives, along with
// the partial Output describing the failures.
func Run(ctx context.Context, pc *Context, inputs []types.Input, w io.Writer) (Output, error) {
	if w == nil {
		w = io.Discard
	}
	docs := documents(inputs)
	store := embed.NewStore()
	done := make([]prepared, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pc.workers)
	for i := range docs {
		g.Go(func() error {
			done[i] = pc.prepare(gctx, store, docs[i])
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	var (
		out     Output
		refs    []types.Document
		queries []prepared
	)
	for _, p := range done {
		if p.failure != nil {
			out.Failures = append(out.Failures, pc.report(w, *p.failure))
			continue
		}
		if p.doc.IsReference {
			refs = append(refs, p.doc)
		} else {
			queries = append(queries, p)
		}
	}
	out.References, out.Unclassified = len(refs), len(queries)

	if len(refs) == 0 {
		return out, ErrNoReferences
	}
	if len(queries) == 0 {
		return out, ErrNoUnclassified
	}

	corpus := types.NewReferenceCorpus(refs)
	queryIDs := make([]string, len(queries))
	for i, q := range queries {
		queryIDs[i] = q.doc.ID
	}
	matches, failures := MatchAll(store, queryIDs, corpus.IDs())
	for _, f := range failures {
		out.Failures = append(out.Failures, pc.report(w, f))
	}

	for _, q := range queries {
		m, ok := matches[q.doc.ID]
		if !ok {
			continue
		}
		ref, _ := corpus.Lookup(m.ReferenceID)

		publishable, conference, source := ref.Publishable(), ref.Conference(), types.VerdictNearestReference
		if q.pred != nil {
			publishable, conference, source = q.pred.Publishable, q.pred.Conference, types.VerdictClassifier
		}
		r := pc.generator.Generate(q.doc.RawText, conference, m.Similarity, publishable)

		out.Results = append(out.Results, types.ClassificationResult{
			Filename:             q.doc.ID,
			PredictedPublishable: publishable,
			PredictedConference:  conference,
			MatchedReferenceID:   m.ReferenceID,
			SimilarityScore:      m.Similarity,
			PlagiarismFlag:       rationale.IsPlagiarism(m.Similarity),
			Rationale:            r.Text,
			VerdictSource:        source,
		})
		out.Assessments = append(out.Assessments, r.Assessment)
		fmt.Fprintf(w, "matched %s -> %s (%.2f)\n", q.doc.ID, m.ReferenceID, m.Similarity)
	}
	return out, nil
}

// MatchAll finds the best reference for each query. Queries without a
// match are returned as ErrNoReferenceMatch outcomes.
func MatchAll(store *embed.Store, queryIDs, refIDs []string) (map[string]embed.Match, []Outcome) {
	matches := make(map[string]embed.Match, len(queryIDs))
	var failures []Outcome
	for _, id := range queryIDs {
		m, ok := embed.BestMatch(store, id, refIDs)
		if !ok {
			failures = append(failures, Outcome{ID: id, Stage: StageMatch, Err: ErrNoReferenceMatch})
			continue
		}
		matches[id] = m
	}
	return matches, failures
}

// prepare normalizes, embeds and, for unclassified documents with a
// classifier configured, classifies one document.
func (pc *Context) prepare(ctx context.Context, store *embed.Store, doc types.Document) prepared {
	p := prepared{doc: doc}
	if strings.TrimSpace(doc.RawText) == "" {
		return p.fail(StageExtract, ErrExtractionFailed)
	}
	p.doc.ProcessedText = pc.normalizer.Normalize(doc.RawText)

	ectx, cancel := pc.withTimeout(ctx)
	vec, err := pc.model.Encode(ectx, p.doc.ProcessedText)
	cancel()
	if err == nil {
		err = store.Put(doc.ID, vec)
	}
	if err != nil {
		return p.fail(StageEmbed, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err))
	}

	if doc.IsReference || pc.classifier == nil {
		return p
	}
	cctx, cancel := pc.withTimeout(ctx)
	pred, err := pc.classifier.Classify(cctx, p.doc.ProcessedText)
	cancel()
	if err != nil {
		if !errors.Is(err, ErrClassificationFailed) {
			err = fmt.Errorf("%w: %w", ErrClassificationFailed, err)
		}
		return p.fail(StageClassify, err)
	}
	p.pred = &pred
	return p
}

func (pc *Context) report(w io.Writer, o Outcome) Outcome {
	fmt.Fprintf(w, "failed  %s: %v\n", o.ID, o.Err)
	pc.logger.Warn("document excluded", "doc", o.ID, "stage", string(o.Stage), "error", o.Err)
	return o
}

// documents assigns each input a run-unique ID. The file name is used
// unless another input already claimed it, in which case the full path is.
func documents(inputs []types.Input) []types.Document {
	docs := make([]types.Document, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		id := filepath.Base(in.Path)
		if in.Path == "" {
			id = fmt.Sprintf("doc-%d", i+1)
		}
		if seen[id] {
			id = filepath.ToSlash(in.Path)
		}
		for seen[id] {
			id = fmt.Sprintf("%s#%d", id, i+1)
		}
		seen[id] = true

		docs[i] = types.Document{
			ID:          id,
			Path:        in.Path,
			RawText:     in.Text,
			IsReference: in.IsReference,
			Label:       in.Label,
		}
	}
	return docs
}
