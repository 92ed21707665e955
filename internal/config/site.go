package config

import (
	"net/url"
	"strings"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/taxonomy"
)

// SiteConfig holds crawl settings for one audited site.
type SiteConfig struct {
	// Cookie is sent with every crawler request, for sites behind a login.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent with crawler requests.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the crawl depth for this site. Zero keeps the flag value.
	Depth int `yaml:"depth,omitempty"`

	// IgnorePatterns are gitignore-style patterns of URL paths to skip.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict crawling to URL paths matching them.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File is the structure of the .a11yscan configuration file.
type File struct {
	// Sites maps host names (e.g. "example.com") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless a site entry overrides them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Taxonomy adjusts category weights and labels, keyed by category.
	Taxonomy map[string]taxonomy.Override `yaml:"taxonomy,omitempty"`
}

// GetSiteConfig returns the settings for host merged over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Depth != 0 {
		result.Depth = siteConfig.Depth
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if len(siteConfig.FollowPatterns) > 0 {
		result.FollowPatterns = siteConfig.FollowPatterns
	}
	return result
}

// TaxonomyOptions returns the taxonomy options the file asks for.
func (cf *File) TaxonomyOptions() []taxonomy.Option {
	if cf == nil || len(cf.Taxonomy) == 0 {
		return nil
	}
	return []taxonomy.Option{taxonomy.WithOverrides(cf.Taxonomy)}
}

// SiteKey returns the lowercased host of rawURL, the key of File.Sites.
// A URL without a scheme is read as https.
func SiteKey(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
