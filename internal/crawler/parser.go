package crawler

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts the title and links of an HTML page.
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving relative URLs.
	baseURL *url.URL
}

// ParseResult contains the information extracted from an HTML page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Links contains all resolved http(s) links in document order.
	Links []string

	// InternalLinks are links on the same host as the page.
	InternalLinks []string

	// ExternalLinks are links to other hosts.
	ExternalLinks []string
}

// NewParser creates a new HTML parser with the given base URL.
// The base URL is used to resolve relative links.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse reads an HTML document and collects its links.
// A <base href> element changes the URL relative links resolve against.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Title:         strings.TrimSpace(doc.Find("title").First().Text()),
		Links:         make([]string, 0),
		InternalLinks: make([]string, 0),
		ExternalLinks: make([]string, 0),
	}

	base := p.baseURL
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := url.Parse(strings.TrimSpace(href)); err == nil {
			base = p.baseURL.ResolveReference(u)
		}
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		result.Links = append(result.Links, resolved)
		p.classifyLink(resolved, result)
	})

	return result, nil
}

// resolveURL resolves href against base. Non-navigational links (script,
// mail, phone, data, bare fragments) and non-HTTP schemes resolve to "".
// The fragment is dropped since it does not change the page.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// classifyLink sorts a link into internal or external.
func (p *Parser) classifyLink(link string, result *ParseResult) {
	u, err := url.Parse(link)
	if err != nil {
		return
	}

	if strings.EqualFold(u.Host, p.baseURL.Host) {
		result.InternalLinks = append(result.InternalLinks, link)
		return
	}
	result.ExternalLinks = append(result.ExternalLinks, link)
}
