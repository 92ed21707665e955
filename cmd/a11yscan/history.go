package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/config"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/database"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/report"
)

// defaultHistoryLimit is how many audits history lists by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored audits",
		Long: `History lists the audits stored in the database, newest first.

Examples:
  # List recent audits
  a11yscan history

  # Show one stored audit as a Markdown report
  a11yscan history --id 5f0c... -m

  # Show the latest audit of a site
  a11yscan history --site https://example.com

  # Show how the score of one page changed over time
  a11yscan history --url https://example.com/contact`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("id", "", "Print the stored audit with this ID")
	cmd.Flags().String("site", "", "Print the latest stored audit of this seed URL")
	cmd.Flags().String("url", "", "Print the score history of this page")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of audits to list (0 = all)")
	cmd.Flags().BoolP("json", "j", false, "Print the audit given with --id as JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Print the audit given with --id as Markdown")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the audit database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(v.GetBool("verbose"))
	out := cmd.OutOrStdout()

	dbDir := v.GetString("db-dir")
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No audits stored yet.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only use

	ctx := cmd.Context()
	logger.Debug("database opened", "path", db.Path())

	id, site := v.GetString("id"), v.GetString("site")
	if id != "" || site != "" {
		cfg := config.NewConfig()
		cfg.JSONReport = v.GetBool("json")
		cfg.MarkdownReport = v.GetBool("markdown")
		if cfg.JSONReport && cfg.MarkdownReport {
			return config.ErrConflictingReportFormats
		}
		cfg.Verbose = v.GetBool("verbose")

		var audit *model.Audit
		if id != "" {
			audit, err = db.GetAudit(ctx, id)
		} else {
			audit, err = db.GetLatestAudit(ctx, site)
		}
		if err != nil {
			return err
		}
		return outputReport(cfg, audit, out)
	}

	if pageURL := v.GetString("url"); pageURL != "" {
		history, err := db.GetPageHistory(ctx, pageURL)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Fprintf(out, "No stored audits include %s.\n", pageURL)
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "AUDIT\tSTARTED\tSCORE")
		for _, h := range history {
			fmt.Fprintf(tw, "%s\t%s\t%.1f\n", h.AuditID, formatTime(h.StartedAt), h.Score)
		}
		return tw.Flush()
	}

	audits, err := db.ListAudits(ctx, v.GetInt("limit"))
	if err != nil {
		return err
	}
	return printAuditList(out, audits)
}

// printAuditList prints audit summaries as a table.
func printAuditList(out io.Writer, audits []database.AuditSummary) error {
	if len(audits) == 0 {
		fmt.Fprintln(out, "No audits stored yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tURL\tPAGES\tSCORE\tRATING")
	for _, a := range audits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.1f\t%s\n",
			a.ID, formatTime(a.StartedAt), a.SeedURL, a.PageCount, a.Score, report.Band(a.Score))
	}
	return tw.Flush()
}

// formatTime formats a stored timestamp in local time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
