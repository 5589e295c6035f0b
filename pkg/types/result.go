// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// VerdictSource records which strategy decided publishability and venue.
type VerdictSource string

const (
	// VerdictClassifier means the lexical classifier pipeline decided.
	VerdictClassifier VerdictSource = "classifier"

	// VerdictNearestReference means the labels of the best-matching
	// reference document were adopted.
	VerdictNearestReference VerdictSource = "nearest-reference"
)

// ClassificationResult is the verdict for one unclassified document. It is
// created once by the pipeline after every per-document stage completes and
// is never mutated afterwards.
type ClassificationResult struct {
	RunID                string        `json:"run_id" yaml:"run_id"`
	Filename             string        `json:"filename" yaml:"filename"`
	PredictedPublishable bool          `json:"predicted_publishable" yaml:"predicted_publishable"`
	PredictedConference  string        `json:"predicted_conference" yaml:"predicted_conference"`
	MatchedReferenceID   string        `json:"matched_reference_id" yaml:"matched_reference_id"`
	SimilarityScore      float64       `json:"similarity_score" yaml:"similarity_score"`
	PlagiarismFlag       bool          `json:"plagiarism_flag" yaml:"plagiarism_flag"`
	Rationale            string        `json:"rationale" yaml:"rationale"`
	VerdictSource        VerdictSource `json:"verdict_source" yaml:"verdict_source"`
}
