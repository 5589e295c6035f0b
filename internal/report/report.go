// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes screening results as CSV, a detailed text report,
// YAML and JSON exports, and a console summary.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscreen/pkg/types"
)

// Output file names under the output directory.
const (
	CSVFile         = "analysis_results.csv"
	ReportFile      = "detailed_report.txt"
	PredictionsFile = "papers_results.csv"
)

var csvHeader = []string{
	"filename", "matched_with", "similarity_score", "is_publishable",
	"conference", "plagiarism_flag", "rationale",
}

// WriteCSV writes one row per result under a fixed header.
func WriteCSV(w io.Writer, results []types.ClassificationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Filename,
			r.MatchedReferenceID,
			strconv.FormatFloat(r.SimilarityScore, 'f', -1, 64),
			formatBool(r.PredictedPublishable),
			r.PredictedConference,
			formatBool(r.PlagiarismFlag),
			r.Rationale,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.Filename, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

var separator = strings.Repeat("=", 50)

// WriteReport writes the human-readable per-paper report.
func WriteReport(w io.Writer, results []types.ClassificationResult) error {
	var b strings.Builder
	b.WriteString("Paper Analysis Report\n")
	b.WriteString("===================\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "Paper: %s\n", r.Filename)
		if r.PredictedPublishable {
			b.WriteString("Status: Publishable\n")
			fmt.Fprintf(&b, "Recommended Conference: %s\n", r.PredictedConference)
		} else {
			b.WriteString("Status: Non-Publishable\n")
		}
		fmt.Fprintf(&b, "Similarity Score: %.2f\n", r.SimilarityScore)
		b.WriteString("Rationale:\n")
		b.WriteString(r.Rationale + "\n")
		b.WriteString("\n" + separator + "\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteYAML writes results as a YAML sequence.
func WriteYAML(w io.Writer, results []types.ClassificationResult) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []types.ClassificationResult) error {
	if results == nil {
		results = []types.ClassificationResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Paths lists the files written by WriteFiles.
type Paths struct {
	CSV    string
	Report string
}

// WriteFiles writes the CSV and detailed report into dir, creating it.
func WriteFiles(dir string, results []types.ClassificationResult) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("creating output directory: %w", err)
	}
	p := Paths{
		CSV:    filepath.Join(dir, CSVFile),
		Report: filepath.Join(dir, ReportFile),
	}
	if err := writeFile(p.CSV, results, WriteCSV); err != nil {
		return Paths{}, err
	}
	if err := writeFile(p.Report, results, WriteReport); err != nil {
		return Paths{}, err
	}
	return p, nil
}

func writeFile(path string, results []types.ClassificationResult, write func(io.Writer, []types.ClassificationResult) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, results); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
