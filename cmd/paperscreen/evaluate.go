// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscreen/internal/dataset"
	"github.com/pdiddy/paperscreen/internal/normalize"
	"github.com/pdiddy/paperscreen/internal/report"
	"github.com/pdiddy/paperscreen/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the classifier alone over dataset/Papers/",
	Long: `Evaluate applies the publishability and venue classifiers to every
paper under dataset/Papers/ without embedding or similarity matching, and
writes one row per paper to output/papers_results.csv. Papers whose text
cannot be extracted or classified are reported and skipped.`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Classifier.BinaryModel == "" {
		return errors.New("evaluate requires --binary-model and --venue-model")
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	conv, err := newConverter(ctx, cfg)
	if err != nil {
		return err
	}

	all, err := dataset.Enumerate(cfg.Dataset.Dir)
	if err != nil {
		return err
	}
	var papers []types.Input
	for _, in := range all {
		if !in.IsReference {
			papers = append(papers, in)
		}
	}
	color.Blue("Found %d papers to evaluate", len(papers))

	papers, _ = dataset.Load(ctx, conv, papers, workerCount(cfg), os.Stdout)
	norm := normalize.New(cfg.Normalize)

	var (
		preds  []report.Prediction
		failed int
	)
	for _, p := range papers {
		name := filepath.Base(p.Path)
		if p.Text == "" {
			failed++
			continue
		}
		pred, err := classifier.Classify(ctx, norm.Normalize(p.Text))
		if err != nil {
			fmt.Printf("failed  %s: %v\n", name, err)
			failed++
			continue
		}
		preds = append(preds, report.Prediction{
			Filename:    name,
			Publishable: pred.Publishable,
			Conference:  pred.Conference,
		})
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, report.PredictionsFile)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := report.WritePredictions(f, preds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	color.Green("Predictions saved to %s", out)
	fmt.Printf("Evaluated: %d, failed: %d\n", len(preds), failed)
	return nil
}

func init() {
	evaluateCmd.Flags().String("dataset-dir", "dataset", "dataset root directory")
	evaluateCmd.Flags().String("output-dir", "output", "output directory")
	evaluateCmd.Flags().String("binary-model", "", "publishability classifier artifact (YAML)")
	evaluateCmd.Flags().String("venue-model", "", "venue classifier artifact (YAML)")
	evaluateCmd.Flags().String("extractor", "native", "PDF text extractor: native or container")
	evaluateCmd.Flags().Int("workers", 0, "parallel workers (0 = number of CPUs)")
	evaluateCmd.Flags().String("out", "", "predictions CSV path (default <output-dir>/papers_results.csv)")

	rootCmd.AddCommand(evaluateCmd)
}
