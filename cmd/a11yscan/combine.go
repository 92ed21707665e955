package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/config"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/results"
)

// NewCombineCmd creates the combine command.
func NewCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge per-tool result files into bewertung.json",
		Long: `Combine reads pa11y_result.json, axe_result.json and
lighthouse_results.json from the output directory and writes the merged
findings per page to bewertung.json.

Missing or unreadable tool files are skipped. This is the step "audit" runs
after the analyzers; use it to recombine kept tool results, for example
after changing taxonomy overrides.`,
		Args: cobra.NoArgs,
		RunE: runCombineCmd,
	}

	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory holding the result files")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan in current or home directory)")
	cmd.Flags().Bool("clean", false,
		"Remove the per-tool result files after combining")

	return cmd
}

func runCombineCmd(cmd *cobra.Command, _ []string) error {
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
	in := sc.aggregator.Load(layout.ToolPaths())
	if in.Len() == 0 {
		return fmt.Errorf("no tool results found in %s", layout.Dir)
	}

	reports := sc.aggregator.Combine(in)
	if err := results.WriteJSON(layout.Combined(), reports); err != nil {
		return fmt.Errorf("failed to write combined results: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Combined %d entries into %d page reports: %s\n",
		in.Len(), len(reports), layout.Combined())

	if v.GetBool("clean") {
		removed, err := results.CleanToolResults(layout)
		if err != nil {
			return err
		}
		logger.Info("removed tool results", "files", removed)
	}
	return nil
}
