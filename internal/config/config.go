package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "a11yscan"

	// DefaultTimeout bounds a single analyzer run on one page.
	// Lighthouse starts a headless Chrome, which alone can take a while.
	DefaultTimeout = 3 * time.Minute

	// DefaultMaxDepth only follows the links found on the seed page.
	DefaultMaxDepth = 1

	// DefaultMaxPages audits every discovered page.
	DefaultMaxPages = 0

	// DefaultCrawlLimit caps how many URLs the crawler collects.
	DefaultCrawlLimit = 500

	// DefaultConcurrency audits one page at a time. Every page already runs
	// three browser based tools, so more workers mostly compete for CPU.
	DefaultConcurrency = 1

	// DefaultCrawlDelay is the minimum delay between crawler requests.
	DefaultCrawlDelay = 200 * time.Millisecond

	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "a11yscan/1.0 (+https://github.com/mhdismailalsayad/Accessiblity-analyzer)"

	// DefaultMaxBodySize limits how much of a page the crawler reads.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultOutputDir is where result files are written.
	DefaultOutputDir = "."
)

// Config holds all options of an audit run.
// It is populated from CLI flags and the config file and passed down
// explicitly; nothing reads it from global state.
type Config struct {
	// Target is the seed URL of the site to audit.
	Target string

	// Tools lists the analyzers to run. Defaults to all three.
	Tools []model.Tool

	// Timeout bounds one analyzer run on one page.
	Timeout time.Duration

	// MaxDepth is how many link levels the crawler follows from the seed.
	// 0 audits the seed page only.
	MaxDepth int

	// MaxPages is how many of the discovered pages are audited, seed first.
	// 0 audits all of them.
	MaxPages int

	// CrawlLimit caps the number of URLs the crawler collects.
	CrawlLimit int

	// Concurrency is the number of pages audited at the same time.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the .a11yscan file. If empty, the
	// current directory and then the home directory are searched.
	ConfigFilePath string

	// SiteConfigs holds the loaded config file, if any.
	SiteConfigs *File

	// JSONReport writes the report as JSON. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the report as GitHub-flavored Markdown.
	MarkdownReport bool

	// ReportFile is where the report goes. Empty means stdout.
	ReportFile string

	// OutputDir holds the result files of the run.
	OutputDir string

	// KeepToolResults keeps the per-tool result files after combining.
	KeepToolResults bool

	// DBDir is the directory of the audit database.
	// Defaults to the XDG data directory (~/.local/share/a11yscan on Linux).
	DBDir string

	// SaveToDB stores the finished audit in the database.
	SaveToDB bool

	// SkipNodeCheck skips the Node.js version check before auditing.
	SkipNodeCheck bool

	// CrawlDelay is the minimum delay between crawler requests.
	CrawlDelay time.Duration

	// UserAgent is sent with crawler requests.
	UserAgent string

	// MaxBodySize is the maximum number of bytes read from a crawled page.
	MaxBodySize int64
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Tools:       model.Tools(),
		Timeout:     DefaultTimeout,
		MaxDepth:    DefaultMaxDepth,
		MaxPages:    DefaultMaxPages,
		CrawlLimit:  DefaultCrawlLimit,
		Concurrency: DefaultConcurrency,
		OutputDir:   DefaultOutputDir,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
		CrawlDelay:  DefaultCrawlDelay,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the data directory of a11yscan.
// On Linux: ~/.local/share/a11yscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory of a11yscan.
// On Linux: ~/.config/a11yscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the cache directory of a11yscan. Analyzer temp files
// are written below it.
// On Linux: ~/.cache/a11yscan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if len(c.Tools) == 0 {
		return ErrNoTools
	}
	for _, t := range c.Tools {
		if !t.Valid() {
			return ErrUnknownTool
		}
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if c.MaxPages < 0 || c.CrawlLimit < 0 {
		return ErrInvalidMaxPages
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// Site returns the effective site settings for the target, or the zero
// SiteConfig when no config file was loaded.
func (c *Config) Site() SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(SiteKey(c.Target))
}
