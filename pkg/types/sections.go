// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionName tags a region of a paper.
type SectionName string

const (
	SectionAbstract     SectionName = "abstract"
	SectionIntroduction SectionName = "introduction"
	SectionMethodology  SectionName = "methodology"
	SectionResults      SectionName = "results"
	SectionConclusion   SectionName = "conclusion"
)

// SectionOrder lists the section names in detection priority order.
var SectionOrder = []SectionName{
	SectionAbstract,
	SectionIntroduction,
	SectionMethodology,
	SectionResults,
	SectionConclusion,
}

// Sections maps every SectionName to its accumulated text. All five keys
// are always present; absent regions hold "".
type Sections map[SectionName]string

// NewSections returns a Sections value with every key set to "".
func NewSections() Sections {
	s := make(Sections, len(SectionOrder))
	for _, name := range SectionOrder {
		s[name] = ""
	}
	return s
}
