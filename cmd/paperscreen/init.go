// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscreen/internal/dataset"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the dataset and output directory layout",
	Long: `Init creates dataset/Reference/Publishable/<CONF>/ for every configured
conference, dataset/Reference/Non-Publishable/, dataset/Papers/, and the
output directory. Existing directories are left untouched.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := dataset.Init(cfg.Dataset.Dir, cfg.Dataset.Conferences, os.Stdout); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Output.Dir, err)
	}
	fmt.Println("Directory structure verified successfully")
	return nil
}

func init() {
	initCmd.Flags().String("dataset-dir", "dataset", "dataset root directory")
	initCmd.Flags().String("output-dir", "output", "output directory")
	initCmd.Flags().StringSlice("conferences", nil, "conference directories to create (default CVPR,EMNLP,KDD,NeurIPS,TMLR)")

	rootCmd.AddCommand(initCmd)
}
