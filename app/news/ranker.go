package news

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var reRelativeTime = regexp.MustCompile(`(?i)(\d+)\s*(minute|min|hour|hr|day|week)s?\s+ago`)

// Ranker assigns a freshness score to each entry from its time indicators and
// orders the aggregated list newest-first. Entries without any usable
// indicator sink below dated ones but are not dropped.
type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

func (r *Ranker) Run(entries []Entry) []Entry {
	now := time.Now().UTC()

	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	for i := range ranked {
		publishedAt := r.resolveTime(ranked[i], now)
		if !publishedAt.IsZero() {
			ranked[i].PublishedAt = publishedAt
		}
		ranked[i].Freshness = freshnessScore(publishedAt, now)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Freshness != ranked[j].Freshness {
			return ranked[i].Freshness > ranked[j].Freshness
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})

	return ranked
}

func (r *Ranker) resolveTime(entry Entry, now time.Time) time.Time {
	if !entry.PublishedAt.IsZero() {
		return entry.PublishedAt
	}

	hint := strings.TrimSpace(entry.PublishedHint)
	if hint == "" {
		return time.Time{}
	}

	if t, ok := parseRelativeTime(hint, now); ok {
		return t
	}

	if t, err := dateparse.ParseAny(hint); err == nil {
		return t
	}

	return time.Time{}
}

func parseRelativeTime(hint string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(hint)

	switch {
	case strings.Contains(lower, "just now"), strings.Contains(lower, "moments ago"):
		return now, true
	case strings.Contains(lower, "today"):
		return now.Truncate(24 * time.Hour).Add(12 * time.Hour), true
	case strings.Contains(lower, "yesterday"):
		return now.Add(-24 * time.Hour), true
	}

	matches := reRelativeTime.FindStringSubmatch(lower)
	if matches == nil {
		return time.Time{}, false
	}

	count, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, false
	}

	var unit time.Duration
	switch matches[2] {
	case "minute", "min":
		unit = time.Minute
	case "hour", "hr":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	}

	return now.Add(-time.Duration(count) * unit), true
}

// freshnessScore maps article age to a [0,1] band. Unresolvable times score
// below every dated entry.
func freshnessScore(publishedAt, now time.Time) float64 {
	if publishedAt.IsZero() {
		return 0.05
	}

	age := now.Sub(publishedAt)
	switch {
	case age < 0:
		return 1.0
	case age < time.Hour:
		return 1.0
	case age < 6*time.Hour:
		return 0.9
	case age < 24*time.Hour:
		return 0.8
	case age < 48*time.Hour:
		return 0.6
	case age < 7*24*time.Hour:
		return 0.4
	default:
		return 0.1
	}
}
