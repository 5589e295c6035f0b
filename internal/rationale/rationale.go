// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rationale explains a verdict in prose. It scores the methodology,
// novelty and results sections against weighted keyword tables, pulls
// reported metrics out of the results, and joins the triggered findings
// into a single sentence.
package rationale

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pdiddy/paperscreen/internal/sections"
	"github.com/pdiddy/paperscreen/pkg/types"
)

// Keyword is a weighted term counted by AnalyzeSection.
type Keyword struct {
	Term   string
	Weight int
}

// KeywordTable is a set of weighted keywords for one aspect of a paper.
type KeywordTable []Keyword

// Similarity thresholds. Low is kept for reporting; no fragment uses it.
const (
	HighSimilarity   = 0.85
	MediumSimilarity = 0.70
	LowSimilarity    = 0.50

	// PlagiarismThreshold is the similarity above which a match is flagged.
	PlagiarismThreshold = 0.8
)

// Aspect score bounds for fragments.
const (
	strongScore = 0.7
	weakScore   = 0.3
)

var (
	MethodologyKeywords = KeywordTable{
		{"experiment", 3}, {"analysis", 2}, {"evaluation", 2}, {"framework", 2},
		{"algorithm", 2}, {"method", 1}, {"approach", 1},
	}
	NoveltyKeywords = KeywordTable{
		{"novel", 3}, {"innovative", 3}, {"new", 2}, {"proposed", 2},
		{"improvement", 2}, {"enhanced", 1}, {"advanced", 1},
	}
	ResultsKeywords = KeywordTable{
		{"significant", 3}, {"outperform", 3}, {"improvement", 2}, {"accuracy", 2},
		{"performance", 2}, {"effective", 1}, {"efficient", 1},
	}
)

var (
	percentPattern     = regexp.MustCompile(`(\d+\.?\d*)%`)
	performancePattern = regexp.MustCompile(`(?:accuracy|precision|recall|f1)[\s:]+(\d+\.?\d*)`)
)

// AnalyzeSection scores text against table as
// min(1, sum(count*weight) / sum(5*weight)), counting non-overlapping,
// case-insensitive substring occurrences. Empty text scores 0.
func AnalyzeSection(text string, table KeywordTable) float64 {
	if text == "" || len(table) == 0 {
		return 0
	}
	text = strings.ToLower(text)

	var total, possible int
	for _, kw := range table {
		total += strings.Count(text, kw.Term) * kw.Weight
		possible += 5 * kw.Weight
	}
	return min(float64(total)/float64(possible), 1)
}

// Metrics are the numbers a results section reports.
type Metrics struct {
	Percentages []float64 `json:"percentages,omitempty" yaml:"percentages,omitempty"`
	Performance []float64 `json:"performance,omitempty" yaml:"performance,omitempty"`
}

// MaxPerformance returns the largest accuracy-like value and whether any
// was found.
func (m Metrics) MaxPerformance() (float64, bool) {
	if len(m.Performance) == 0 {
		return 0, false
	}
	return slices.Max(m.Performance), true
}

// ExtractMetrics finds percentages ("91.5%") and values following
// accuracy, precision, recall or f1 ("accuracy: 95").
func ExtractMetrics(text string) Metrics {
	return Metrics{
		Percentages: floats(percentPattern.FindAllStringSubmatch(text, -1)),
		Performance: floats(performancePattern.FindAllStringSubmatch(strings.ToLower(text), -1)),
	}
}

func floats(matches [][]string) []float64 {
	var out []float64
	for _, m := range matches {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Assessment is everything a rationale was built from.
type Assessment struct {
	Methodology float64  `json:"methodology" yaml:"methodology"`
	Novelty     float64  `json:"novelty" yaml:"novelty"`
	Results     float64  `json:"results" yaml:"results"`
	Metrics     Metrics  `json:"metrics" yaml:"metrics"`
	Fragments   []string `json:"fragments" yaml:"fragments"`
}

// Rationale is the generated explanation and its supporting assessment.
type Rationale struct {
	Text       string     `json:"text" yaml:"text"`
	Assessment Assessment `json:"assessment" yaml:"assessment"`
}

// Generator builds rationales. The zero value uses the default tables;
// it holds no mutable state and is safe for concurrent use.
type Generator struct {
	Methodology KeywordTable
	Novelty     KeywordTable
	Results     KeywordTable
}

// New returns a Generator with the default keyword tables.
func New() *Generator {
	return &Generator{
		Methodology: MethodologyKeywords,
		Novelty:     NoveltyKeywords,
		Results:     ResultsKeywords,
	}
}

// Assess scores the sections of a raw paper text.
func (g *Generator) Assess(rawText string) Assessment {
	sec := sections.Extract(rawText)
	return Assessment{
		Methodology: AnalyzeSection(sec[types.SectionMethodology], g.table(g.Methodology, MethodologyKeywords)),
		Novelty:     AnalyzeSection(sec[types.SectionAbstract]+sec[types.SectionIntroduction], g.table(g.Novelty, NoveltyKeywords)),
		Results:     AnalyzeSection(sec[types.SectionResults], g.table(g.Results, ResultsKeywords)),
		Metrics:     ExtractMetrics(sec[types.SectionResults]),
	}
}

func (g *Generator) table(t, def KeywordTable) KeywordTable {
	if t == nil {
		return def
	}
	return t
}

// Generate explains why a paper with rawText is or is not recommended for
// conference, given its best reference similarity.
func (g *Generator) Generate(rawText, conference string, similarity float64, publishable bool) Rationale {
	a := g.Assess(rawText)

	var reasons []string
	switch {
	case similarity >= HighSimilarity:
		if publishable {
			reasons = append(reasons, fmt.Sprintf("Strong alignment with %s themes", conference))
		} else {
			reasons = append(reasons, "High similarity with existing work raises originality concerns")
		}
	case similarity >= MediumSimilarity:
		if publishable {
			reasons = append(reasons, fmt.Sprintf("Good thematic alignment with %s", conference))
		} else {
			reasons = append(reasons, "Moderate thematic alignment")
		}
	}

	reasons = appendScore(reasons, a.Methodology,
		"Strong methodological foundation", "Methodology needs more detailed exposition")
	reasons = appendScore(reasons, a.Novelty,
		"Demonstrates significant innovation", "Limited novelty in approach")
	reasons = appendScore(reasons, a.Results,
		"Well-supported results with strong validation", "Results require stronger empirical support")

	if perf, ok := a.Metrics.MaxPerformance(); ok {
		switch {
		case perf > 90:
			reasons = append(reasons, fmt.Sprintf("Excellent performance metrics (%.1f%%)", perf))
		case perf > 80:
			reasons = append(reasons, fmt.Sprintf("Strong performance metrics (%.1f%%)", perf))
		}
	}
	a.Fragments = reasons

	prefix := "Not recommended for publication due to: "
	if publishable {
		prefix = fmt.Sprintf("Recommended for %s based on: ", conference)
	}
	return Rationale{
		Text:       prefix + strings.Join(reasons, "; ") + ".",
		Assessment: a,
	}
}

func appendScore(reasons []string, score float64, strong, weak string) []string {
	switch {
	case score > strongScore:
		return append(reasons, strong)
	case score < weakScore:
		return append(reasons, weak)
	}
	return reasons
}

// IsPlagiarism reports whether a similarity is high enough to flag the
// pair for review.
func IsPlagiarism(similarity float64) bool {
	return similarity > PlagiarismThreshold
}
