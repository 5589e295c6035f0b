// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NoConference is the conference value assigned to papers that are not
// publishable. The venue classifier is never consulted for them.
const NoConference = "none"

// Label is the ground truth attached to a reference document.
type Label struct {
	// Publishable reports whether the reference sits under the Publishable branch.
	Publishable bool `json:"publishable" yaml:"publishable"`

	// Conference is the venue directory name for publishable references,
	// or NoConference.
	Conference string `json:"conference" yaml:"conference"`
}

// Input is one enumerated dataset entry handed to the pipeline: a path, its
// extracted text, and provenance. Text is empty when extraction failed.
type Input struct {
	Path        string `json:"path" yaml:"path"`
	Text        string `json:"-" yaml:"-"`
	IsReference bool   `json:"is_reference" yaml:"is_reference"`
	Label       *Label `json:"label,omitempty" yaml:"label,omitempty"`
}

// Document is one paper under analysis. It is immutable once normalized;
// sections, embeddings, and predictions are separate artifacts keyed by ID.
type Document struct {
	// ID is the file name, unique within a run.
	ID string `json:"id" yaml:"id"`

	// Path is the source location the text was extracted from.
	Path string `json:"path" yaml:"path"`

	// RawText is the extracted plain text. Empty means extraction failed.
	RawText string `json:"-" yaml:"-"`

	// ProcessedText is the normalized form of RawText.
	ProcessedText string `json:"-" yaml:"-"`

	IsReference bool `json:"is_reference" yaml:"is_reference"`

	// Label is set for reference documents only.
	Label *Label `json:"label,omitempty" yaml:"label,omitempty"`
}

// Publishable reports the reference label, false for unlabeled documents.
func (d Document) Publishable() bool {
	return d.Label != nil && d.Label.Publishable
}

// Conference returns the reference conference label, or NoConference.
func (d Document) Conference() string {
	if d.Label == nil || d.Label.Conference == "" {
		return NoConference
	}
	return d.Label.Conference
}
