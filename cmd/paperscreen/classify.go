// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscreen/internal/dataset"
	"github.com/pdiddy/paperscreen/internal/normalize"
	"github.com/pdiddy/paperscreen/internal/pipeline"
	"github.com/pdiddy/paperscreen/internal/report"
	"github.com/pdiddy/paperscreen/internal/store"
	"github.com/pdiddy/paperscreen/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Screen every paper in the dataset against the reference set",
	Long: `Classify extracts text from the reference set and dataset/Papers/,
embeds every document, and matches each paper to its most similar
reference. The verdict comes from the classifier artifacts when
--binary-model and --venue-model are given, otherwise from the matched
reference's labels.

Results are written to output/analysis_results.csv and
output/detailed_report.txt and recorded in the history database.
Papers that fail extraction, embedding, or classification are reported
and skipped.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Status lines go to stderr when stdout carries structured output.
	var status io.Writer = os.Stdout
	if format != "" {
		status = os.Stderr
	}

	if err := dataset.Check(cfg.Dataset.Dir); err != nil {
		return fmt.Errorf("%w (run paperscreen init)", err)
	}
	inputs, err := dataset.Enumerate(cfg.Dataset.Dir)
	if err != nil {
		return err
	}

	history, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer history.Close()

	conv, err := newConverter(ctx, cfg)
	if err != nil {
		return err
	}
	color.New(color.FgBlue).Fprintf(status, "Extracting text from %d documents\n", len(inputs))
	inputs, _ = dataset.Load(ctx, conv, inputs, workerCount(cfg), status)

	model, closeCache, err := newModel(ctx, cfg, history, status)
	if err != nil {
		return err
	}
	defer closeCache()

	bar := getProgressBar(os.Stderr, withText(inputs), "Embedding")
	opts := []pipeline.Option{
		pipeline.WithWorkers(workerCount(cfg)),
		pipeline.WithTimeout(cfg.Pipeline.PerDocumentTimeout),
		pipeline.WithLogger(newLogger(verbose)),
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	if classifier != nil {
		opts = append(opts, pipeline.WithClassifier(classifier))
	}
	pc, err := pipeline.NewContext(normalize.New(cfg.Normalize), progressModel{Model: model, bar: bar}, opts...)
	if err != nil {
		return err
	}

	started := time.Now()
	out, runErr := pipeline.Run(ctx, pc, inputs, status)
	_ = bar.Finish()
	if runErr != nil && !errors.Is(runErr, pipeline.ErrNoReferences) && !errors.Is(runErr, pipeline.ErrNoUnclassified) {
		return runErr
	}

	summary := report.Summary{
		References:   out.References,
		Unclassified: out.Unclassified,
		Failed:       len(out.Failures),
		Results:      out.Results,
	}
	if runErr != nil {
		summary.Print(status)
		return runErr
	}

	runID := uuid.NewString()
	for i := range out.Results {
		out.Results[i].RunID = runID
	}
	source := types.VerdictNearestReference
	if pc.HasClassifier() {
		source = types.VerdictClassifier
	}
	err = history.RecordRun(ctx, store.Run{
		ID:            runID,
		StartedAt:     started,
		Dataset:       cfg.Dataset.Dir,
		Model:         pc.ModelName(),
		VerdictSource: source,
		References:    out.References,
		Unclassified:  out.Unclassified,
		Failed:        len(out.Failures),
	}, out.Results)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	if len(out.Results) > 0 {
		paths, err := report.WriteFiles(cfg.Output.Dir, out.Results)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(status, "\nResults saved to: %s\n", paths.CSV)
		color.New(color.FgGreen).Fprintf(status, "Detailed report saved to: %s\n", paths.Report)
	}
	summary.Print(status)
	fmt.Fprintf(status, "Run ID: %s\n", runID)

	if err := writeResults(os.Stdout, format, out.Results); err != nil {
		return err
	}
	if out.HasFailures() {
		color.New(color.FgYellow).Fprintf(status, "%d document(s) excluded, see messages above\n", len(out.Failures))
	}
	return nil
}

func init() {
	classifyCmd.Flags().String("dataset-dir", "dataset", "dataset root directory")
	classifyCmd.Flags().String("output-dir", "output", "directory for the CSV and detailed report")
	classifyCmd.Flags().String("binary-model", "", "publishability classifier artifact (YAML)")
	classifyCmd.Flags().String("venue-model", "", "venue classifier artifact (YAML)")
	classifyCmd.Flags().String("embedder", "hashing", "embedding backend: hashing or ollama")
	classifyCmd.Flags().String("cache", "sqlite", "embedding cache: none, sqlite, or pgvector")
	classifyCmd.Flags().String("extractor", "native", "PDF text extractor: native or container")
	classifyCmd.Flags().Int("workers", 0, "parallel workers (0 = number of CPUs)")
	classifyCmd.Flags().Bool("json", false, "also print results as JSON on stdout (same as --format json)")
	classifyCmd.Flags().String("format", "", "also print results on stdout: json or yaml")

	rootCmd.AddCommand(classifyCmd)
}

// outputFormat resolves --format and its --json shorthand. An empty result
// means no structured output.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if format != "" && format != "json" {
			return "", fmt.Errorf("--json conflicts with --format %s", format)
		}
		format = "json"
	}
	switch format {
	case "", "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

// writeResults prints results in format; an empty format prints nothing.
func writeResults(w io.Writer, format string, results []types.ClassificationResult) error {
	switch format {
	case "json":
		return report.WriteJSON(w, results)
	case "yaml":
		return report.WriteYAML(w, results)
	default:
		return nil
	}
}

// withText counts inputs whose extraction produced text; only those reach
// the embedding model.
func withText(inputs []types.Input) int {
	n := 0
	for _, in := range inputs {
		if strings.TrimSpace(in.Text) != "" {
			n++
		}
	}
	return n
}

// workerCount returns the configured parallelism, defaulting to the CPU count.
func workerCount(cfg types.Config) int {
	if cfg.Pipeline.Workers > 0 {
		return cfg.Pipeline.Workers
	}
	return runtime.NumCPU()
}
