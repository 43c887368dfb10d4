package extract

import (
	"github.com/PuerkitoBio/goquery"
)

// Result holds everything derived from a single article page.
type Result struct {
	Title        string
	Content      string
	Excerpt      string
	WordCount    int
	QualityScore int
	Success      bool
}

// Strategy locates the main body text in a cleaned document. Strategies are
// stateless and return an empty string when they find nothing usable.
type Strategy func(doc *goquery.Document) string

const (
	// Minimum candidate length for a strategy result to be considered.
	minCandidateLength = 300

	// Success gate thresholds (strict).
	minContentLength = 500
	minWordCount     = 100

	excerptMaxLength      = 300
	excerptFragmentMinLen = 20
)
