package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Spider discovers the pages of a site to audit.
// It starts at a seed URL, follows same-host links breadth first up to a
// depth limit, and respects a request rate limit.
type Spider struct {
	// client performs the HTTP requests.
	client *http.Client

	// maxDepth limits how deep to follow links from the seed.
	// 0 means only the seed, 1 means the seed and the links on it, etc.
	// Pages at maxDepth are listed but not fetched.
	maxDepth int

	// maxPages limits the number of discovered URLs, seed included.
	// Zero or negative means no limit.
	maxPages int

	// limiter spaces out requests to the audited site.
	limiter *rate.Limiter

	// userAgent is the User-Agent header to use.
	userAgent string

	// cookie is sent with every request when set.
	cookie string

	// headers are extra request headers.
	headers map[string]string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// ignore matches URL paths to skip, in gitignore syntax.
	ignore *ignore.GitIgnore

	// follow, when set, restricts crawling to matching URL paths.
	follow *ignore.GitIgnore

	logger *slog.Logger

	// visited tracks normalized URLs already discovered.
	visited map[string]bool

	// mutex protects visited and pageCount.
	mutex sync.Mutex

	// pageCount tracks pages fetched.
	pageCount int
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the maximum number of discovered URLs.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithDelay sets the minimum delay between requests.
// Zero disables rate limiting.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithSpiderUserAgent sets a custom User-Agent header.
func WithSpiderUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithSpiderMaxBodySize sets the maximum response body size.
func WithSpiderMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithCookie sets the Cookie header, for sites that need a session.
func WithCookie(cookie string) SpiderOption {
	return func(s *Spider) {
		s.cookie = cookie
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithIgnorePatterns sets URL path patterns to skip, in gitignore syntax
// (e.g. "/admin/", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		if len(patterns) > 0 {
			s.ignore = ignore.CompileIgnoreLines(patterns...)
		}
	}
}

// WithFollowPatterns restricts crawling to URL paths matching at least one
// pattern, in gitignore syntax (e.g. "/docs/", "/blog/*").
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		if len(patterns) > 0 {
			s.follow = ignore.CompileIgnoreLines(patterns...)
		}
	}
}

// WithSpiderLogger sets the logger.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider using client for requests.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:      client,
		maxDepth:    1,
		maxPages:    500,
		limiter:     rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		userAgent:   "a11yscan (+https://github.com/mhdismailalsayad/Accessiblity-analyzer)",
		maxBodySize: 10 * 1024 * 1024, // 10MB
		visited:     make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{Timeout: 30 * time.Second}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// queueItem represents an item in the crawl queue.
type queueItem struct {
	url   string
	depth int
}

// Discover returns the seed URL followed by the same-host pages reachable
// from it, sorted and without duplicates. A failure to fetch the seed is
// returned as an error; failures on other pages only drop their links.
func (s *Spider) Discover(ctx context.Context, seed string) ([]string, error) {
	start, err := normalizeSeed(seed)
	if err != nil {
		return nil, err
	}

	startURL := start.String()
	s.markVisited(startURL)
	found := make([]string, 0)
	queue := []queueItem{{url: startURL, depth: 0}}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return withSeed(startURL, found), ctx.Err()
		default:
		}

		item := queue[0]
		queue = queue[1:]
		if item.depth >= s.maxDepth {
			continue
		}

		links, err := s.fetchLinks(ctx, item.url)
		if err != nil {
			if item.url == startURL {
				return nil, fmt.Errorf("failed to fetch %s: %w", startURL, err)
			}
			s.logger.Debug("skipping page", "url", item.url, "error", err)
			continue
		}

		for _, link := range links {
			if s.limitReached(len(found) + 1) {
				break
			}
			if !s.isSameSite(start.Host, link) || !s.shouldCrawl(link) || !s.markVisited(link) {
				continue
			}
			normalized := s.normalizeURL(link)
			found = append(found, normalized)
			queue = append(queue, queueItem{url: normalized, depth: item.depth + 1})
		}
	}

	return withSeed(startURL, found), nil
}

// limitReached reports whether n discovered URLs exceed maxPages.
func (s *Spider) limitReached(n int) bool {
	return s.maxPages > 0 && n >= s.maxPages
}

// withSeed returns the seed followed by the sorted other URLs.
func withSeed(seed string, found []string) []string {
	sort.Strings(found)
	return append([]string{seed}, found...)
}

// normalizeSeed validates the seed URL. A missing scheme defaults to https.
func normalizeSeed(seed string) (*url.URL, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, fmt.Errorf("invalid start URL: empty")
	}
	if !strings.Contains(seed, "://") {
		seed = "https://" + seed
	}

	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid start URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid start URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid start URL: missing host")
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}

// fetchLinks fetches a page and returns the links found on it.
func (s *Spider) fetchLinks(ctx context.Context, pageURL string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // response body

	s.mutex.Lock()
	s.pageCount++
	s.mutex.Unlock()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warn("page returned error status", "url", pageURL, "status", resp.StatusCode)
	}
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, err
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		reader = bytes.NewReader(body)
	}

	// Links resolve against the final URL after redirects.
	base := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL.String()
	}
	parser, err := NewParser(base)
	if err != nil {
		return nil, err
	}
	result, err := parser.Parse(reader)
	if err != nil {
		return nil, err
	}
	return result.Links, nil
}

// markVisited records a URL and reports whether it was new.
func (s *Spider) markVisited(pageURL string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	key := s.normalizeURL(pageURL)
	if s.visited[key] {
		return false
	}
	s.visited[key] = true
	return true
}

// normalizeURL normalizes a URL for deduplication: lowercase scheme and
// host, no fragment, and "/" for an empty path.
func (s *Spider) normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// isSameSite checks if a URL is on the audited host.
func (s *Spider) isSameSite(baseHost, targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	return strings.EqualFold(u.Host, baseHost)
}

// Reset clears the spider's state, allowing it to be reused.
func (s *Spider) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.visited = make(map[string]bool)
	s.pageCount = 0
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return SpiderStats{
		PagesFetched: s.pageCount,
		URLsSeen:     len(s.visited),
	}
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// PagesFetched is the number of pages requested.
	PagesFetched int

	// URLsSeen is the number of unique URLs discovered.
	URLsSeen int
}

// shouldCrawl checks a URL against the ignore and follow patterns.
// Ignore patterns win over follow patterns.
func (s *Spider) shouldCrawl(targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	if s.ignore != nil && s.ignore.MatchesPath(path) {
		return false
	}
	if s.follow != nil {
		return s.follow.MatchesPath(path)
	}
	return true
}
