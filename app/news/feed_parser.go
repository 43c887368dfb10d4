package news

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// FeedParser handles sources that publish an RSS/Atom feed instead of a
// scrapeable listing page.
type FeedParser struct {
	gofeedParser *gofeed.Parser
}

func NewFeedParser() *FeedParser {
	return &FeedParser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *FeedParser) Run(data []byte, sourceConfig *Config) ([]Entry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		// Some feeds carry the permalink only in the guid element.
		link := cmp.Or(item.Link, item.GUID)
		if link == "" || item.Title == "" {
			continue
		}

		entry := Entry{
			Title:   item.Title,
			Link:    link,
			Source:  sourceConfig.Name,
			Summary: item.Description,
		}

		if item.PublishedParsed != nil {
			entry.PublishedAt = *item.PublishedParsed
		} else {
			entry.PublishedHint = item.Published
		}

		for _, author := range item.Authors {
			if author != nil && author.Name != "" {
				entry.Authors = append(entry.Authors, author.Name)
			}
		}
		entry.Categories = item.Categories

		entry.ContentHash = generateContentHash(entry)
		entries = append(entries, entry)
	}

	if len(entries) > sourceConfig.Settings.MaxItems {
		entries = entries[:sourceConfig.Settings.MaxItems]
	}

	return entries, nil
}
