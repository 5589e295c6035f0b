// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscreen/internal/convert"
	"github.com/pdiddy/paperscreen/internal/normalize"
	"github.com/pdiddy/paperscreen/internal/pipeline"
	"github.com/pdiddy/paperscreen/internal/rationale"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <file>",
	Short: "Classify a single paper with the classifier artifacts",
	Long: `Recommend extracts the text of one PDF or .txt file, runs the
publishability and venue classifiers on it, and prints the verdict with
a section-based assessment. Both --binary-model and --venue-model are
required, either as flags or in the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

// recommendation is the JSON form of a single verdict.
type recommendation struct {
	Paper       string               `json:"paper"`
	Publishable bool                 `json:"publishable"`
	Conference  string               `json:"conference"`
	Assessment  rationale.Assessment `json:"assessment"`
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Classifier.BinaryModel == "" {
		return errors.New("recommend requires --binary-model and --venue-model")
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	conv, err := newConverter(ctx, cfg)
	if err != nil {
		return err
	}

	var log strings.Builder
	raw := convert.Extract(conv, path, &log)
	if raw == "" {
		return fmt.Errorf("%w: %s", pipeline.ErrExtractionFailed, strings.TrimSpace(log.String()))
	}

	pred, err := classifier.Classify(ctx, normalize.New(cfg.Normalize).Normalize(raw))
	if err != nil {
		return err
	}
	rec := recommendation{
		Paper:       filepath.Base(path),
		Publishable: pred.Publishable,
		Conference:  pred.Conference,
		Assessment:  rationale.New().Assess(raw),
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	printRecommendation(rec)
	return nil
}

func printRecommendation(rec recommendation) {
	fmt.Printf("\nPaper: %s\n", rec.Paper)
	if rec.Publishable {
		color.Green("Predicted publishable: YES")
		fmt.Printf("Recommended conference: %s\n", rec.Conference)
	} else {
		color.Red("Predicted publishable: NO")
	}

	a := rec.Assessment
	fmt.Printf("Methodology score: %.2f\n", a.Methodology)
	fmt.Printf("Novelty score:     %.2f\n", a.Novelty)
	fmt.Printf("Results score:     %.2f\n", a.Results)
	if best, ok := a.Metrics.MaxPerformance(); ok {
		fmt.Printf("Best reported performance: %.1f%%\n", best)
	}
}

func init() {
	recommendCmd.Flags().String("binary-model", "", "publishability classifier artifact (YAML)")
	recommendCmd.Flags().String("venue-model", "", "venue classifier artifact (YAML)")
	recommendCmd.Flags().String("extractor", "native", "PDF text extractor: native or container")
	recommendCmd.Flags().Bool("json", false, "output the verdict as JSON")

	rootCmd.AddCommand(recommendCmd)
}
