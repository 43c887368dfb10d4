package news

import (
	"testing"
	"time"
)

func TestRanker_Run_OrdersByFreshness(t *testing.T) {
	ranker := NewRanker()

	now := time.Now().UTC()
	entries := []Entry{
		{Title: "Week Old", PublishedAt: now.Add(-6 * 24 * time.Hour)},
		{Title: "Fresh", PublishedAt: now.Add(-30 * time.Minute)},
		{Title: "Yesterday", PublishedAt: now.Add(-30 * time.Hour)},
	}

	ranked := ranker.Run(entries)

	want := []string{"Fresh", "Yesterday", "Week Old"}
	for i, title := range want {
		if ranked[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, ranked[i].Title)
		}
	}
}

func TestRanker_Run_ParsesRelativeHints(t *testing.T) {
	ranker := NewRanker()

	entries := []Entry{
		{Title: "Old", PublishedHint: "3 days ago"},
		{Title: "Recent", PublishedHint: "2 hours ago"},
		{Title: "Newest", PublishedHint: "just now"},
	}

	ranked := ranker.Run(entries)

	if ranked[0].Title != "Newest" || ranked[2].Title != "Old" {
		t.Errorf("Expected relative hints to order entries, got %q, %q, %q",
			ranked[0].Title, ranked[1].Title, ranked[2].Title)
	}

	for _, entry := range ranked {
		if entry.PublishedAt.IsZero() {
			t.Errorf("Expected %q to have a resolved publish time", entry.Title)
		}
	}
}

func TestRanker_Run_ParsesAbsoluteDates(t *testing.T) {
	ranker := NewRanker()

	entries := []Entry{
		{Title: "Dated", PublishedHint: "2026-08-29T09:00:00Z"},
	}

	ranked := ranker.Run(entries)
	if ranked[0].PublishedAt.IsZero() {
		t.Errorf("Expected ISO date hint to be parsed")
	}
}

func TestRanker_Run_UnknownTimeSinksLast(t *testing.T) {
	ranker := NewRanker()

	now := time.Now().UTC()
	entries := []Entry{
		{Title: "No Hint"},
		{Title: "Ancient", PublishedAt: now.Add(-90 * 24 * time.Hour)},
	}

	ranked := ranker.Run(entries)
	if ranked[len(ranked)-1].Title != "No Hint" {
		t.Errorf("Expected entry without time indicator to rank last")
	}
}

func TestFreshnessScore_Bands(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"minutes", 10 * time.Minute, 1.0},
		{"hours", 3 * time.Hour, 0.9},
		{"same day", 20 * time.Hour, 0.8},
		{"two days", 40 * time.Hour, 0.6},
		{"this week", 5 * 24 * time.Hour, 0.4},
		{"stale", 30 * 24 * time.Hour, 0.1},
	}

	for _, tt := range tests {
		if got := freshnessScore(now.Add(-tt.age), now); got != tt.want {
			t.Errorf("%s: expected %.2f, got %.2f", tt.name, tt.want, got)
		}
	}

	if got := freshnessScore(time.Time{}, now); got >= 0.1 {
		t.Errorf("Expected unresolved time to score below every band, got %.2f", got)
	}
}
