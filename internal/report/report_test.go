// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscreen/pkg/types"
)

var sample = []types.ClassificationResult{
	{
		Filename:             "P001.pdf",
		PredictedPublishable: true,
		PredictedConference:  "NeurIPS",
		MatchedReferenceID:   "R006.pdf",
		SimilarityScore:      0.912,
		PlagiarismFlag:       true,
		Rationale:            "Recommended for NeurIPS based on: Strong alignment with NeurIPS themes, quoted \"here\".",
	},
	{
		Filename:            "P002.pdf",
		PredictedConference: types.NoConference,
		MatchedReferenceID:  "R001.pdf",
		SimilarityScore:     0.5,
		Rationale:           "Not recommended for publication due to: Limited novelty in approach.",
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"P001.pdf", "R006.pdf", "0.912", "True", "NeurIPS", "True",
		"Recommended for NeurIPS based on: Strong alignment with NeurIPS themes, quoted \"here\".",
	}, rows[1])
	assert.Equal(t, []string{
		"P002.pdf", "R001.pdf", "0.5", "False", "none", "False",
		"Not recommended for publication due to: Limited novelty in approach.",
	}, rows[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(csvHeader, ",")+"\n", buf.String())
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sample))

	sep := strings.Repeat("=", 50)
	want := "Paper Analysis Report\n===================\n\n" +
		"Paper: P001.pdf\nStatus: Publishable\nRecommended Conference: NeurIPS\n" +
		"Similarity Score: 0.91\nRationale:\n" + sample[0].Rationale + "\n\n" + sep + "\n\n" +
		"Paper: P002.pdf\nStatus: Non-Publishable\n" +
		"Similarity Score: 0.50\nRationale:\n" + sample[1].Rationale + "\n\n" + sep + "\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteYAMLAndJSON(t *testing.T) {
	var yb bytes.Buffer
	require.NoError(t, WriteYAML(&yb, sample))
	var fromYAML []types.ClassificationResult
	require.NoError(t, yaml.Unmarshal(yb.Bytes(), &fromYAML))
	assert.Equal(t, sample, fromYAML)

	var jb bytes.Buffer
	require.NoError(t, WriteJSON(&jb, sample))
	assert.Contains(t, jb.String(), `"matched_reference_id": "R006.pdf"`)

	jb.Reset()
	require.NoError(t, WriteJSON(&jb, nil))
	var empty []types.ClassificationResult
	require.NoError(t, json.Unmarshal(jb.Bytes(), &empty))
	assert.Empty(t, empty)
	assert.Equal(t, "[]\n", jb.String())
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(dir, sample)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, CSVFile), paths.CSV)
	assert.Equal(t, filepath.Join(dir, ReportFile), paths.Report)

	data, err := os.ReadFile(paths.Report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Paper Analysis Report\n"))

	data, err = os.ReadFile(paths.CSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "filename,matched_with,"))
}

func TestSummaryPrint(t *testing.T) {
	var buf bytes.Buffer
	Summary{References: 15, Unclassified: 2, Results: sample}.Print(&buf)
	assert.Equal(t, "\nAnalysis Summary:\n"+
		"Total reference documents processed: 15\n"+
		"Total unclassified documents processed: 2\n"+
		"Total matches found: 2\n"+
		"Potential plagiarism cases: 1\n", buf.String())

	buf.Reset()
	Summary{References: 15, Unclassified: 2, Failed: 3, Results: sample}.Print(&buf)
	assert.Contains(t, buf.String(), "Documents excluded: 3\n")
}

func TestSummaryPrint_NoResults(t *testing.T) {
	var buf bytes.Buffer
	Summary{References: 3}.Print(&buf)
	assert.Equal(t, "\nNo similarity results were generated\n", buf.String())
}

func TestWritePredictions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePredictions(&buf, []Prediction{
		{Filename: "P001.pdf", Publishable: true, Conference: "KDD"},
		{Filename: "P002.pdf", Conference: types.NoConference},
	}))
	assert.Equal(t, "filename,predicted_publishable,predicted_conf\n"+
		"P001.pdf,1,KDD\n"+
		"P002.pdf,0,none\n", buf.String())
}
