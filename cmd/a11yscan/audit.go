package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/analyzer"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/config"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/crawler"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/database"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/pipeline"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/report"
	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/results"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [url]",
		Short: "Audit the accessibility of a website",
		Long: `Audit crawls a website and checks every page it finds with pa11y,
axe-core and Lighthouse.

The run writes these files to the output directory:
  found_urls.txt             pages discovered by the crawler
  bewertung.json             merged findings per page
  score.json                 score and prioritized problems
  visualization_summary.txt  plain-text summary for screen reader users

Per-tool result files are removed once combined unless --keep-tool-results
is given. Finished audits are stored in a local database, see "a11yscan history".

Without a URL on an interactive terminal, a11yscan asks for the URL and the
number of pages to audit.

Examples:
  # Audit a site and all pages linked from its start page
  a11yscan audit https://example.com

  # Audit only the first five pages, two at a time
  a11yscan audit -p 5 -b 2 https://example.com

  # Run only axe-core and write a Markdown report
  a11yscan audit --tools axe -m -r report.md https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAuditCmd,
	}

	toolNames := make([]string, 0, len(model.Tools()))
	for _, t := range model.Tools() {
		toolNames = append(toolNames, t.String())
	}

	// Crawl flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Link levels to follow from the start page (0 = start page only)")
	cmd.Flags().Int("crawl-limit", config.DefaultCrawlLimit,
		"Maximum number of URLs the crawler collects (0 = no limit)")
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Minimum delay between crawler requests")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent by the crawler")

	// Audit flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Number of discovered pages to audit (0 = all)")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of pages audited at the same time")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for one analyzer run on one page")
	cmd.Flags().StringSlice("tools", toolNames,
		"Analyzers to run (pa11y, axe, lighthouse)")
	cmd.Flags().Bool("skip-node-check", false,
		"Do not check the Node.js version before auditing")
	cmd.Flags().BoolP("interactive", "i", false,
		"Ask for the URL and the number of pages to audit")

	// Output flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory for result files")
	cmd.Flags().Bool("keep-tool-results", false,
		"Keep the per-tool result files after combining")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan in current or home directory)")
	cmd.Flags().Bool("no-db", false,
		"Do not store the audit in the database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the audit database")

	return cmd
}

// auditDeps holds everything runAudit talks to outside the process.
type auditDeps struct {
	commander analyzer.Commander
	client    *http.Client
	stdout    io.Writer
	stderr    io.Writer

	// tempDir receives analyzer result files while they run.
	tempDir string

	// prompter asks for the page count after crawling. Nil means the
	// --max-pages value is used.
	prompter prompter

	showProgress bool
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	cfg, err := buildAuditConfig(v, args)
	if err != nil {
		return err
	}

	var p prompter
	if v.GetBool("interactive") || (cfg.Target == "" && isTerminal(os.Stdin)) {
		p = terminalPrompter{}
		if cfg.Target == "" {
			if cfg.Target, err = p.URL(); err != nil {
				return err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signalContext(ctx, logger)
	defer cancel()

	tempDir := config.XDGCacheDir()
	if err := os.MkdirAll(tempDir, 0o750); err != nil {
		logger.Warn("cannot use cache directory, falling back to system temp dir", "dir", tempDir, "error", err)
		tempDir = ""
	}

	_, err = runAudit(ctx, cfg, auditDeps{
		commander:    analyzer.ExecCommander{},
		stdout:       cmd.OutOrStdout(),
		stderr:       cmd.ErrOrStderr(),
		tempDir:      tempDir,
		prompter:     p,
		showProgress: isTerminal(os.Stderr),
	}, logger)
	return err
}

// buildAuditConfig creates a Config from flags and environment variables.
func buildAuditConfig(v *viper.Viper, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	if len(args) > 0 {
		cfg.Target = strings.TrimSpace(args[0])
	}

	tools, err := model.ParseTools(splitList(v.GetStringSlice("tools")))
	if err != nil {
		return nil, fmt.Errorf("invalid --tools: %w", err)
	}
	cfg.Tools = tools

	cfg.Verbose = v.GetBool("verbose")
	cfg.MaxDepth = v.GetInt("depth")
	cfg.CrawlLimit = v.GetInt("crawl-limit")
	cfg.CrawlDelay = v.GetDuration("crawl-delay")
	cfg.UserAgent = v.GetString("user-agent")
	cfg.MaxPages = v.GetInt("max-pages")
	cfg.Concurrency = v.GetInt("concurrency")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.SkipNodeCheck = v.GetBool("skip-node-check")
	cfg.OutputDir = v.GetString("output-dir")
	cfg.KeepToolResults = v.GetBool("keep-tool-results")
	cfg.JSONReport = v.GetBool("json")
	cfg.MarkdownReport = v.GetBool("markdown")
	cfg.ReportFile = v.GetString("report")
	cfg.SaveToDB = !v.GetBool("no-db")
	cfg.DBDir = v.GetString("db-dir")
	cfg.ConfigFilePath = v.GetString("config")

	cfg.SiteConfigs, err = loadConfigFile(cfg.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// runAudit performs a complete audit: crawl, analyze, combine, score and
// report. The returned audit is also written to the result files.
func runAudit(ctx context.Context, cfg *config.Config, deps auditDeps, logger *slog.Logger) (*model.Audit, error) {
	out := deps.stdout

	if !cfg.SkipNodeCheck {
		nodeVersion, err := analyzer.CheckNodeVersion(ctx, deps.commander, analyzer.MinNodeMajor)
		if err != nil {
			return nil, fmt.Errorf("node.js check failed: %w", err)
		}
		logger.Info("node.js found", "version", nodeVersion)
	}

	sc, err := newScoring(cfg.SiteConfigs, logger)
	if err != nil {
		return nil, err
	}

	layout := results.NewLayout(cfg.OutputDir)
	removed, err := results.CleanOld(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to remove old results: %w", err)
	}
	if len(removed) > 0 {
		logger.Info("removed results of a previous run", "files", removed)
	}

	audit := model.NewAudit(cfg.Target)

	fmt.Fprintf(out, "Collecting pages of %s...\n", cfg.Target)
	pages, err := discoverPages(ctx, cfg, deps.client, logger)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Found %d pages\n", len(pages))
	if err := results.WriteURLList(layout.URLList(), pages); err != nil {
		return nil, fmt.Errorf("failed to write url list: %w", err)
	}

	limit := cfg.MaxPages
	if deps.prompter != nil {
		if limit, err = deps.prompter.PageCount(len(pages)); err != nil {
			return nil, err
		}
	}
	pages = limitPages(pages, limit)
	fmt.Fprintf(out, "Auditing %d page(s) with %s...\n", len(pages), joinTools(cfg.Tools))

	pageAudits, err := auditPages(ctx, cfg, deps, pages, logger)
	if err != nil {
		return nil, fmt.Errorf("audit interrupted: %w", err)
	}

	if err := writeToolResults(layout, cfg.Tools, pageAudits, audit); err != nil {
		return nil, err
	}

	reports := sc.aggregator.Combine(sc.aggregator.Load(layout.ToolPaths()))
	if err := results.WriteJSON(layout.Combined(), reports); err != nil {
		return nil, fmt.Errorf("failed to write combined results: %w", err)
	}

	audit.Pages = pages
	audit.Reports = reports
	audit.Overall = sc.scorer.ScoreAll(reports)
	audit.PerURL = sc.scorer.ScorePerURL(reports)
	audit.FinishedAt = time.Now()

	if err := results.WriteJSON(layout.Score(), scoreFile{ScoreBreakdown: audit.Overall}); err != nil {
		return nil, fmt.Errorf("failed to write score: %w", err)
	}
	if err := writeWith(layout.Summary(), report.NewSummaryWriter, audit); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	if err := outputReport(cfg, audit, out); err != nil {
		logger.Error("report failed", "error", err)
	}

	if err := saveAudit(ctx, cfg, audit, logger); err != nil {
		logger.Error("failed to save audit", "id", audit.ID, "error", err)
	} else if cfg.SaveToDB {
		fmt.Fprintf(out, "Audit saved as %s\n", audit.ID)
	}

	if !cfg.KeepToolResults {
		if _, err := results.CleanToolResults(layout); err != nil {
			logger.Warn("failed to remove tool results", "error", err)
		}
	}

	return audit, nil
}

// discoverPages crawls the target with the site settings of the config file.
func discoverPages(ctx context.Context, cfg *config.Config, client *http.Client, logger *slog.Logger) ([]string, error) {
	site := cfg.Site()

	depth := cfg.MaxDepth
	if site.Depth > 0 {
		depth = site.Depth
	}

	opts := []crawler.SpiderOption{
		crawler.WithMaxDepth(depth),
		crawler.WithMaxPages(cfg.CrawlLimit),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithSpiderUserAgent(cfg.UserAgent),
		crawler.WithSpiderMaxBodySize(cfg.MaxBodySize),
		crawler.WithSpiderLogger(logger),
	}
	if site.Cookie != "" {
		opts = append(opts, crawler.WithCookie(site.Cookie))
	}
	if len(site.Headers) > 0 {
		opts = append(opts, crawler.WithHeaders(site.Headers))
	}
	if len(site.IgnorePatterns) > 0 {
		opts = append(opts, crawler.WithIgnorePatterns(site.IgnorePatterns))
	}
	if len(site.FollowPatterns) > 0 {
		opts = append(opts, crawler.WithFollowPatterns(site.FollowPatterns))
	}

	spider := crawler.NewSpider(client, opts...)
	pages, err := spider.Discover(ctx, cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to crawl %s: %w", cfg.Target, err)
	}

	stats := spider.Stats()
	logger.Info("crawl finished",
		"pages_fetched", stats.PagesFetched,
		"urls_seen", stats.URLsSeen,
		"depth", depth,
	)
	return pages, nil
}

// limitPages keeps the first n pages. n <= 0 keeps all of them.
func limitPages(pages []string, n int) []string {
	if n <= 0 || n >= len(pages) {
		return pages
	}
	return pages[:n]
}

// auditPages runs the analyzers on every page. The result has one entry
// per page in page order.
func auditPages(ctx context.Context, cfg *config.Config, deps auditDeps, pages []string, logger *slog.Logger) ([]*model.PageAudit, error) {
	runners := analyzer.ForTools(cfg.Tools,
		analyzer.WithCommander(deps.commander),
		analyzer.WithTimeout(cfg.Timeout),
		analyzer.WithTempDir(deps.tempDir),
		analyzer.WithLogger(logger),
	)

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.NewAuditPipeline(runners, logger)
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	bar := newProgress(deps.stderr, len(pages), deps.showProgress)
	defer bar.Finish() //nolint:errcheck // progress output only

	audits := make([]*model.PageAudit, len(pages))
	err := bp.ProcessBatchWithCallback(ctx, pages, func(page *model.PageAudit, index int) {
		audits[index] = page
		_ = bar.Add(1) //nolint:errcheck // progress output only
	})
	return audits, err
}

// writeToolResults appends each page's tool results to the per-tool files
// and records tool failures in audit.
func writeToolResults(layout results.Layout, tools []model.Tool, pages []*model.PageAudit, audit *model.Audit) error {
	perTool := make(map[model.Tool][]json.RawMessage, len(tools))
	for _, page := range pages {
		if page == nil {
			continue
		}
		audit.RecordToolErrors(page)

		entries, err := page.Entries()
		if err != nil {
			return fmt.Errorf("failed to encode results of %s: %w", page.URL, err)
		}
		for _, t := range tools {
			if entry, ok := entries[t]; ok {
				perTool[t] = append(perTool[t], entry)
			}
		}
	}

	for _, t := range tools {
		if len(perTool[t]) == 0 {
			continue
		}
		if err := results.Append(layout.ToolPath(t), perTool[t]...); err != nil {
			return fmt.Errorf("failed to write %s results: %w", t, err)
		}
	}
	return nil
}

// scoreFile is the layout of score.json.
type scoreFile struct {
	model.ScoreBreakdown
	PerURL []model.URLScore `json:"per_url,omitempty"`
}

// outputReport writes the report in the requested format to the report
// file or out.
func outputReport(cfg *config.Config, audit *model.Audit, out io.Writer) error {
	newWriter := func(w io.Writer) report.Writer {
		switch {
		case cfg.JSONReport:
			return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
		case cfg.MarkdownReport:
			return report.NewMarkdownWriter(w)
		default:
			return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
		}
	}

	if cfg.ReportFile == "" {
		_, err := newWriter(out).Write(audit)
		return err
	}
	if err := writeWith(cfg.ReportFile, newWriter, audit); err != nil {
		return err
	}
	fmt.Fprintf(out, "Report written to %s\n", cfg.ReportFile)
	return nil
}

// writeWith renders audit into the file at path with a writer made by
// newWriter. Parent directories are created. Reports can contain session
// URLs, so the file is only readable by the owner.
func writeWith[W report.Writer](path string, newWriter func(io.Writer) W, audit *model.Audit) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := newWriter(f).Write(audit); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}

// saveAudit stores audit in the database when saving is enabled.
func saveAudit(ctx context.Context, cfg *config.Config, audit *model.Audit, logger *slog.Logger) error {
	if !cfg.SaveToDB {
		return nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // nothing to recover on close

	// Results are worth keeping even when the run was interrupted late.
	if err := db.SaveAudit(context.WithoutCancel(ctx), audit); err != nil {
		return err
	}
	logger.Info("audit saved", "id", audit.ID, "db", db.Path())
	return nil
}

// joinTools lists tool names for messages.
func joinTools(tools []model.Tool) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
