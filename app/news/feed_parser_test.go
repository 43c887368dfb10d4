package news

import (
	"testing"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Skyfeed Travel</title>
    <link>https://skyfeed.example.com</link>
    <item>
      <title>Budget Airlines Add Routes</title>
      <link>https://skyfeed.example.com/routes</link>
      <description>More options for weekend trips.</description>
      <pubDate>Sat, 29 Aug 2026 10:00:00 GMT</pubDate>
      <category>aviation</category>
    </item>
    <item>
      <title>Hotel Prices Climb Again</title>
      <link>https://skyfeed.example.com/hotels</link>
      <description>Average rates up 8 percent.</description>
    </item>
    <item>
      <title></title>
      <link>https://skyfeed.example.com/untitled</link>
    </item>
  </channel>
</rss>`

func TestFeedParser_Run(t *testing.T) {
	parser := NewFeedParser()

	config := testConfig()
	config.Name = "skyfeed"
	config.Kind = SourceKindFeed

	entries, err := parser.Run([]byte(rssFixture), config)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries (untitled skipped), got %d", len(entries))
	}

	first := entries[0]
	if first.Title != "Budget Airlines Add Routes" {
		t.Errorf("Unexpected title: %q", first.Title)
	}
	if first.Source != "skyfeed" {
		t.Errorf("Unexpected source: %q", first.Source)
	}
	if first.PublishedAt.IsZero() {
		t.Errorf("Expected pubDate to be parsed")
	}
	if len(first.Categories) != 1 || first.Categories[0] != "aviation" {
		t.Errorf("Unexpected categories: %v", first.Categories)
	}
	if first.ContentHash == "" {
		t.Errorf("Expected content hash to be set")
	}

	if !entries[1].PublishedAt.IsZero() {
		t.Errorf("Expected missing pubDate to leave zero time")
	}
}

func TestFeedParser_Run_GuidFallback(t *testing.T) {
	fixture := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Skyfeed Travel</title>
    <link>https://skyfeed.example.com</link>
    <item>
      <title>Visa Rules Relaxed</title>
      <guid>https://skyfeed.example.com/visa-rules</guid>
      <description>Shorter queues ahead.</description>
    </item>
    <item>
      <title>No Link At All</title>
    </item>
  </channel>
</rss>`

	parser := NewFeedParser()

	config := testConfig()
	config.Name = "skyfeed"
	config.Kind = SourceKindFeed

	entries, err := parser.Run([]byte(fixture), config)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry (linkless skipped), got %d", len(entries))
	}
	if entries[0].Link != "https://skyfeed.example.com/visa-rules" {
		t.Errorf("Expected guid to serve as link, got %q", entries[0].Link)
	}
}

func TestFeedParser_Run_InvalidData(t *testing.T) {
	parser := NewFeedParser()

	if _, err := parser.Run([]byte("not a feed"), testConfig()); err == nil {
		t.Errorf("Expected error for invalid feed data")
	}
}
