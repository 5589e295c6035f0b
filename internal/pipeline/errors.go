// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"

	"github.com/pdiddy/paperscreen/internal/classify"
	"github.com/pdiddy/paperscreen/internal/dataset"
)

// Sentinel errors for pipeline runs. Per-document failures are reported as
// Outcomes wrapping one of the first four; the rest abort a run.
var (
	ErrExtractionFailed     = errors.New("text extraction failed")
	ErrEmbeddingFailed      = errors.New("embedding failed")
	ErrClassificationFailed = classify.ErrClassificationFailed
	ErrNoReferenceMatch     = errors.New("no reference match")

	ErrDatasetMissing = dataset.ErrDatasetMissing
	ErrNoReferences   = errors.New("no reference documents")
	ErrNoUnclassified = errors.New("no unclassified documents")
)
