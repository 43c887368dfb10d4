package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that never contain article body text. Removed once, before any
// strategy runs, so noise cannot leak into downstream heuristics.
var boilerplateSelectors = []string{
	"script", "style", "noscript", "iframe", "svg", "form", "button",
	"nav", "header", "footer", "aside",
	"[role=navigation]", "[role=banner]", "[role=complementary]", "[role=contentinfo]",
	"[aria-hidden=true]", "[hidden]",
	".nav", ".navbar", ".menu", ".breadcrumb",
	".header", ".footer", ".sidebar",
	".ad", ".ads", ".advert", ".advertisement", ".sponsored",
	".social", ".share", ".sharing",
	".comments", ".comment-section",
	".related", ".recommended", ".trending",
	".newsletter", ".subscribe", ".subscription",
	".cookie", ".cookie-banner", ".consent", ".gdpr",
	".popup", ".modal", ".overlay",
}

// Elements stripped a second time for the terminal fallback, when no strategy
// produced a candidate above the length threshold.
var navigationSelectors = []string{
	"nav", "header", "footer", "aside", "ul.menu", "a.skip-link",
}

type ContentExtractor struct {
	strategies []Strategy
}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{
		strategies: []Strategy{
			extractSemanticContainer,
			extractByContentClass,
			extractBestScoringBlock,
			extractParagraphs,
			extractMainRegion,
		},
	}
}

// Run extracts the article body from raw HTML. Malformed or unexpected markup
// never produces an error: extraction degrades to the terminal fallback and
// reports low confidence through Success and QualityScore instead.
func (e *ContentExtractor) Run(data []byte, sourceURL string) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	removeBoilerplate(doc)

	candidate := runCascade(doc, e.strategies)
	if candidate == "" {
		candidate = terminalFallback(doc)
	}

	content := Normalize(candidate)
	title := resolveTitle(doc)
	wordCount := len(strings.Fields(content))

	result := &Result{
		Title:        title,
		Content:      content,
		Excerpt:      buildExcerpt(content),
		WordCount:    wordCount,
		QualityScore: scoreQuality(content, title),
		Success:      passesGate(content, wordCount),
	}

	slog.Debug("Content extraction finished",
		"url", sourceURL,
		"content_length", len(result.Content),
		"word_count", result.WordCount,
		"quality_score", result.QualityScore,
		"success", result.Success)

	return result, nil
}

func removeBoilerplate(doc *goquery.Document) {
	doc.Find(strings.Join(boilerplateSelectors, ", ")).Remove()
}

// runCascade keeps the longest candidate that clears the minimum length. A
// later strategy only wins by being strictly longer, so a short-but-clean
// result never overwrites a longer good one.
func runCascade(doc *goquery.Document, strategies []Strategy) string {
	best := ""
	for _, strategy := range strategies {
		candidate := strings.TrimSpace(strategy(doc))
		if len(candidate) > len(best) && len(candidate) > minCandidateLength {
			best = candidate
		}
	}
	return best
}

// terminalFallback strips navigation-like elements once more and returns the
// remaining body text verbatim, however short.
func terminalFallback(doc *goquery.Document) string {
	doc.Find(strings.Join(navigationSelectors, ", ")).Remove()
	return strings.TrimSpace(doc.Find("body").Text())
}
