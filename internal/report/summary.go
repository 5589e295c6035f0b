// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// Summary holds the counts printed at the end of a run.
type Summary struct {
	References   int
	Unclassified int
	Failed       int
	Results      []types.ClassificationResult
}

// Plagiarism returns the number of flagged results.
func (s Summary) Plagiarism() int {
	n := 0
	for _, r := range s.Results {
		if r.PlagiarismFlag {
			n++
		}
	}
	return n
}

// Print writes the analysis summary, or a notice when no results exist.
func (s Summary) Print(w io.Writer) {
	if len(s.Results) == 0 {
		fmt.Fprintln(w, "\nNo similarity results were generated")
		return
	}
	fmt.Fprintln(w, "\nAnalysis Summary:")
	fmt.Fprintf(w, "Total reference documents processed: %d\n", s.References)
	fmt.Fprintf(w, "Total unclassified documents processed: %d\n", s.Unclassified)
	fmt.Fprintf(w, "Total matches found: %d\n", len(s.Results))
	fmt.Fprintf(w, "Potential plagiarism cases: %d\n", s.Plagiarism())
	if s.Failed > 0 {
		fmt.Fprintf(w, "Documents excluded: %d\n", s.Failed)
	}
}
