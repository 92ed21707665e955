package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/config"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/report"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/results"
)

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score bewertung.json and print the prioritized problems",
		Long: `Score reads bewertung.json, computes the accessibility score and prints
the problems ordered by how many points they cost. The result is also
written to score.json.

Each line has the form
  label: severity S, frequency F, type factor T = deduction

Examples:
  # Score the results in the current directory
  a11yscan score

  # Also score every page on its own
  a11yscan score --per-url`,
		Args: cobra.NoArgs,
		RunE: runScoreCmd,
	}

	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory holding bewertung.json")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan in current or home directory)")
	cmd.Flags().Bool("per-url", false,
		"Also print and store the score of every page")

	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(v.GetBool("verbose"))

	cf, err := loadConfigFile(v.GetString("config"))
	if err != nil {
		return err
	}
	sc, err := newScoring(cf, logger)
	if err != nil {
		return err
	}

	layout := results.NewLayout(v.GetString("output-dir"))
	reports, err := results.ReadReports(layout.Combined())
	if err != nil {
		return fmt.Errorf("failed to load combined results (run \"a11yscan combine\" first): %w", err)
	}

	out := cmd.OutOrStdout()
	file := scoreFile{ScoreBreakdown: sc.scorer.ScoreAll(reports)}
	fmt.Fprintln(out, "Prioritized issues:")
	fmt.Fprint(out, report.FormatBreakdown(file.ScoreBreakdown))

	if v.GetBool("per-url") {
		file.PerURL = sc.scorer.ScorePerURL(reports)
		printPerURL(out, file)
	}

	if err := results.WriteJSON(layout.Score(), file); err != nil {
		return fmt.Errorf("failed to write score: %w", err)
	}
	logger.Info("score written", "path", layout.Score())
	return nil
}

// printPerURL prints the breakdown of every page.
func printPerURL(out io.Writer, file scoreFile) {
	for _, u := range file.PerURL {
		fmt.Fprintf(out, "\n%s\n", u.URL)
		fmt.Fprint(out, report.FormatBreakdown(u.Breakdown))
	}
}
