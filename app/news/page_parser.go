package news

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageParser extracts candidate article entries from a listing page using the
// source's CSS selectors, with generic fallbacks when the selectors miss.
type PageParser struct{}

func NewPageParser() *PageParser {
	return &PageParser{}
}

func (p *PageParser) Run(data []byte, sourceConfig *Config) ([]Entry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	baseURL, err := url.Parse(sourceConfig.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	entrySelector := cmp.Or(sourceConfig.Selectors.Entry, "article")

	entries := make([]Entry, 0, sourceConfig.Settings.MaxItems)
	doc.Find(entrySelector).Each(func(_ int, sel *goquery.Selection) {
		entry, ok := p.parseEntry(sel, sourceConfig, baseURL)
		if !ok {
			return
		}
		entries = append(entries, entry)
	})

	if len(entries) == 0 {
		entries = p.parseHeadingLinks(doc, sourceConfig, baseURL)
	}

	if len(entries) > sourceConfig.Settings.MaxItems {
		entries = entries[:sourceConfig.Settings.MaxItems]
	}

	for i := range entries {
		entries[i].ContentHash = generateContentHash(entries[i])
	}

	return entries, nil
}

func (p *PageParser) parseEntry(sel *goquery.Selection, sourceConfig *Config, baseURL *url.URL) (Entry, bool) {
	titleSelector := cmp.Or(sourceConfig.Selectors.Title, "h1, h2, h3, a")
	title := strings.TrimSpace(sel.Find(titleSelector).First().Text())
	if title == "" {
		return Entry{}, false
	}

	var href string
	if sourceConfig.Selectors.Link != "" {
		href, _ = sel.Find(sourceConfig.Selectors.Link).First().Attr("href")
	}
	if href == "" {
		href, _ = sel.Find("a[href]").First().Attr("href")
	}
	link := resolveLink(baseURL, href)
	if link == "" {
		return Entry{}, false
	}

	summarySelector := cmp.Or(sourceConfig.Selectors.Summary, "p")
	summary := strings.TrimSpace(sel.Find(summarySelector).First().Text())

	return Entry{
		Title:         title,
		Link:          link,
		Source:        sourceConfig.Name,
		Summary:       summary,
		PublishedHint: p.timeHint(sel, sourceConfig),
	}, true
}

// parseHeadingLinks is the generic fallback for pages whose entry selector
// matched nothing: any heading wrapping a link becomes a candidate.
func (p *PageParser) parseHeadingLinks(doc *goquery.Document, sourceConfig *Config, baseURL *url.URL) []Entry {
	var entries []Entry
	seen := make(map[string]struct{})

	doc.Find("h1 a[href], h2 a[href], h3 a[href]").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		if len(title) < 15 {
			return
		}

		href, _ := sel.Attr("href")
		link := resolveLink(baseURL, href)
		if link == "" {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}

		entries = append(entries, Entry{
			Title:  title,
			Link:   link,
			Source: sourceConfig.Name,
		})
	})

	return entries
}

func (p *PageParser) timeHint(sel *goquery.Selection, sourceConfig *Config) string {
	timeSelector := cmp.Or(sourceConfig.Selectors.Time, "time")
	timeSel := sel.Find(timeSelector).First()
	if timeSel.Length() == 0 {
		return ""
	}
	if datetime, ok := timeSel.Attr("datetime"); ok && datetime != "" {
		return datetime
	}
	return strings.TrimSpace(timeSel.Text())
}

func resolveLink(baseURL *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := baseURL.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func generateContentHash(entry Entry) string {
	content := fmt.Sprintf("%s|%s", entry.Title, entry.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
