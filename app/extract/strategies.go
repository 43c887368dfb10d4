package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Ordered class-name patterns for common content containers. The first whose
// text exceeds 500 characters wins.
var contentClassSelectors = []string{
	"[class*=article-content]",
	"[class*=article-body]",
	"[class*=articleBody]",
	"[class*=post-content]",
	"[class*=post-body]",
	"[class*=entry-content]",
	"[class*=story-body]",
	"[class*=story-content]",
	"[class*=content-body]",
	"[class*=main-content]",
	"[itemprop=articleBody]",
}

// extractSemanticContainer takes the text of the first article-like
// structural element, if present.
func extractSemanticContainer(doc *goquery.Document) string {
	sel := doc.Find("article, [itemprop=articleBody], [role=article]").First()
	if sel.Length() == 0 {
		return ""
	}
	return sel.Text()
}

func extractByContentClass(doc *goquery.Document) string {
	for _, selector := range contentClassSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		if len(text) > 500 {
			return text
		}
	}
	return ""
}

// extractBestScoringBlock scans block-level containers and scores each as
// textLength + 100 * paragraphCount. A block qualifies with more than 200
// characters of text and more than 2 paragraph children.
func extractBestScoringBlock(doc *goquery.Document) string {
	bestScore := 0
	bestText := ""

	doc.Find("div, section, td").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		paragraphs := sel.Find("p").Length()
		if len(text) <= 200 || paragraphs <= 2 {
			return
		}
		score := len(text) + 100*paragraphs
		if score > bestScore {
			bestScore = score
			bestText = text
		}
	})

	return bestText
}

// extractParagraphs concatenates all paragraph texts longer than 50
// characters, provided more than 3 qualify.
func extractParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 50 {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) <= 3 {
		return ""
	}
	return strings.Join(paragraphs, "\n\n")
}

func extractMainRegion(doc *goquery.Document) string {
	sel := doc.Find("main, [role=main], #main, #content").First()
	if sel.Length() == 0 {
		return ""
	}
	return sel.Text()
}
