package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resolveTitle tries heading, document title, and meta values in order,
// returning the first non-empty result after cleaning.
func resolveTitle(doc *goquery.Document) string {
	candidates := []func() string{
		func() string { return doc.Find("h1").First().Text() },
		func() string { return doc.Find("title").First().Text() },
		func() string {
			value, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
			return value
		},
		func() string {
			value, _ := doc.Find(`meta[name="title"]`).First().Attr("content")
			return value
		},
	}

	for _, candidate := range candidates {
		if title := cleanTitle(candidate()); title != "" {
			return title
		}
	}
	return ""
}

// cleanTitle drops the site-name suffix: everything from the first pipe,
// hyphen, or em/en-dash onward.
func cleanTitle(s string) string {
	if idx := strings.IndexAny(s, "|-–—"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
