// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscreen/internal/report"
	"github.com/pdiddy/paperscreen/internal/store"
	"github.com/pdiddy/paperscreen/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Search, list, or export past screening results",
	Long: `History queries the results recorded by earlier classify runs. A query
argument searches rationales with FTS5 full-text search; --run,
--conference, and --plagiarism filter the results. Without a query or
filter the newest results are listed.

Use --runs to list runs instead of results, and --export yaml|json to
write the matching history under the store directory.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	history, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer history.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if listRuns, _ := cmd.Flags().GetBool("runs"); listRuns {
		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := history.Runs(ctx, limit)
		if err != nil {
			return err
		}
		return formatRuns(runs, jsonOutput)
	}

	opts := historyOptsFromFlags(cmd, args)

	format, _ := cmd.Flags().GetString("export")
	switch format {
	case "":
	case "yaml":
		path, err := history.ExportYAML(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	case "json":
		path, err := history.ExportJSON(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	results, err := history.Retrieve(ctx, opts)
	if err != nil {
		return err
	}
	return formatResults(results, jsonOutput)
}

func historyOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	runID, _ := cmd.Flags().GetString("run")
	conference, _ := cmd.Flags().GetString("conference")
	plagiarism, _ := cmd.Flags().GetBool("plagiarism")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:          strings.Join(args, " "),
		RunID:          runID,
		Conference:     conference,
		PlagiarismOnly: plagiarism,
		MaxResults:     limit,
	}
}

func formatResults(results []types.ClassificationResult, jsonOutput bool) error {
	if jsonOutput {
		return report.WriteJSON(os.Stdout, results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %-10s  %-30s  %-6s  %s\n",
		"Rank", "Paper", "Venue", "Matched", "Sim", "Run")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	flagged := color.New(color.FgRed).SprintFunc()
	for i, r := range results {
		sim := fmt.Sprintf("%-6.2f", r.SimilarityScore)
		if r.PlagiarismFlag {
			sim = flagged(sim)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %-10s  %-30s  %s  %s\n",
			i+1, truncate(r.Filename, 30), r.PredictedConference,
			truncate(r.MatchedReferenceID, 30), sim, truncate(r.RunID, 8))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func formatRuns(runs []store.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-18s  %-24s  %s\n",
		"Run", "Started", "Verdicts", "Model", "Refs/Papers/Matched/Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 130))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-18s  %-24s  %d/%d/%d/%d\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.VerdictSource,
			truncate(r.Model, 24), r.References, r.Unclassified, r.Matched, r.Failed)
	}
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().String("run", "", "filter by run ID")
	historyCmd.Flags().String("conference", "", "filter by predicted conference")
	historyCmd.Flags().Bool("plagiarism", false, "only results flagged as potential plagiarism")
	historyCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historyCmd.Flags().Bool("runs", false, "list runs instead of results")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("export", "", "export matching history: yaml or json")

	rootCmd.AddCommand(historyCmd)
}
