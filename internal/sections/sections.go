// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sections tags lines of raw paper text with the semantic region
// they belong to. Detection is a heuristic over fixed trigger tables, not a
// structural parser: a sentence that happens to mention "method" near the
// start of a line moves the cursor. Such false positives only affect
// rationale quality.
package sections

import (
	"strings"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// headerWindow is the number of leading runes of a line inspected for triggers.
const headerWindow = 30

// trigger pairs a section with the substrings that open it.
type trigger struct {
	section  types.SectionName
	patterns []string
}

// triggers is checked in order; the first section with a matching pattern wins.
var triggers = []trigger{
	{types.SectionAbstract, []string{"abstract", "summary"}},
	{types.SectionIntroduction, []string{"introduction", "1.", "i.", "overview"}},
	{types.SectionMethodology, []string{"method", "approach", "3.", "iii.", "implementation"}},
	{types.SectionResults, []string{"result", "evaluation", "4.", "iv.", "experiment"}},
	{types.SectionConclusion, []string{"conclusion", "discussion", "5.", "v.", "future work"}},
}

// Detect returns the section a line opens, or false when the line matches
// no trigger.
func Detect(line string) (types.SectionName, bool) {
	head := []rune(strings.ToLower(strings.TrimSpace(line)))
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	window := string(head)

	for _, t := range triggers {
		for _, p := range t.patterns {
			if strings.Contains(window, p) {
				return t.section, true
			}
		}
	}
	return "", false
}

// Extract splits text into the five sections. Lines before the first
// trigger are dropped; blank lines are skipped; every other line is kept
// verbatim with its newline.
func Extract(text string) types.Sections {
	out := types.NewSections()
	var (
		builders = make(map[types.SectionName]*strings.Builder, len(types.SectionOrder))
		current  types.SectionName
	)

	for _, line := range strings.Split(text, "\n") {
		if name, ok := Detect(line); ok {
			current = name
		}
		if current == "" || strings.TrimSpace(line) == "" {
			continue
		}
		b, ok := builders[current]
		if !ok {
			b = &strings.Builder{}
			builders[current] = b
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	for name, b := range builders {
		out[name] = b.String()
	}
	return out
}
