// Package crawler discovers the pages of a website before it is audited.
//
// # Components
//
//   - Spider: breadth-first discovery of same-host pages from a seed URL
//   - Parser: goquery-based HTML parser that resolves and classifies links
//
// # Discovery rules
//
// Only http and https links on the seed's host are kept. Fragments are
// stripped, so "/a#top" and "/a" are the same page. Links found on a page
// at the maximum depth are listed but never fetched. URL paths can be
// filtered with gitignore-style ignore and follow patterns.
//
// Requests go through a token bucket limiter so an audit does not hammer
// the site, and response bodies are decoded using the charset declared by
// the server or the document.
//
// # Usage
//
//	spider := crawler.NewSpider(http.DefaultClient, crawler.WithMaxDepth(2))
//	urls, err := spider.Discover(ctx, "https://example.com")
package crawler
